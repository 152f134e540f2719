// Package files provides file discovery and naming for the gilts
// download/export pipeline.
//
// Discovery finds downloaded "gilts_in_issue" workbooks in a directory
// and picks the most recent one. Naming maps between the download
// filename convention (gilts_in_issue_DD-MM-YYYY.xls) and the export
// convention (gilts_in_issue_YYYYMMDD.csv). The current-date fallback
// used when a filename carries no parsable date takes an injected clock
// so it can be pinned in tests.
package files
