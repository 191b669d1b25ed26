// Package layout defines the on-disk geometry of a rowstore database file.
//
// Every size and offset used to encode records or address pages lives here.
// Changing any of these values changes the file format.
package layout

// Record field widths in bytes.
const (
	// IDSize is the width of the big-endian uint16 identifier.
	IDSize = 2
	// UsernameSize is the width of the zero-padded username field.
	UsernameSize = 32
	// EmailSize is the width of the zero-padded email field.
	EmailSize = 255

	// RecordSize is the encoded width of one record.
	RecordSize = IDSize + UsernameSize + EmailSize
)

// Record field offsets within an encoded record.
const (
	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize
)

// Page geometry.
const (
	// PageSize is the size of one page in bytes.
	PageSize = 4096
	// TableMaxPages is the hard ceiling on the number of pages in a table.
	TableMaxPages = 100

	// RowsPerPage is the number of whole records that fit in a page.
	// The remaining PageSize%RecordSize bytes of each page are padding.
	RowsPerPage = PageSize / RecordSize
	// TableMaxRows is the largest row count a table can hold.
	TableMaxRows = RowsPerPage * TableMaxPages
)
