// Package sheets writes tabular rows into a Google Sheets worksheet.
//
// A [Writer] replaces a worksheet wholesale: the title is sanitized with [SanitizeTitle],
// any worksheet already carrying that title is deleted, and a new one sized to the data
// receives the header and rows in a single values update starting at A1.
//
// The spreadsheet itself is reached through the [Workbook] interface. [GoogleWorkbook]
// implements it with the Sheets v4 API and a service account key.
package sheets
