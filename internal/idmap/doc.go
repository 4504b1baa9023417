// Package idmap resolves TSK object ids to stable surrogate keys.
//
// Object ids are assigned in ingest order and differ between two runs over
// the same image. The tables built here map each id to something that does
// not: a file's full path, or a composite of the fields that identify a
// volume system, a partition or a file system.
//
// # Resolution Precedence
//
// Resolve tries the tables in this order and returns the first hit:
//
//  1. object paths (file paths plus synthesized artifact paths)
//  2. volume system partitions ("addr_start")
//  3. volume systems ("vs_type_img_offset")
//  4. file systems ("img_offset_fs_type")
//
// Tables are built once per database and never modified afterwards.
package idmap
