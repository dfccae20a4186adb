// Package bibfile implements the glob-backed local bibliography sources.
// A read-only source serves every file its glob matches; the read-write
// output source additionally merges the selection back into its single
// target file on commit.
package bibfile
