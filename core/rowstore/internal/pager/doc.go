/*
Package pager implements the page store of a rowstore database file.

The pager owns the open file and a fixed-capacity array of optional page
buffers, one slot per page index up to layout.TableMaxPages. Pages are loaded
on first reference and never evicted:

  - Page(n) returns the resident buffer for page n, reading it from disk the
    first time if page n lies inside the file (the page count rounds a
    partial trailing page up), or creating a zero-filled buffer if it does not.
  - Flush(n) writes the full layout.PageSize buffer back at n*PageSize,
    including any padding past the last record.

The pager never writes on its own. Durability is whatever its owner flushes
before Close; there is no journal.

# Errors

  - ErrPageOutOfBounds: page index outside [0, layout.TableMaxPages)
  - ErrNoResidentPage: Flush on a page that was never loaded
  - *errors.IOError: the underlying read, write, stat or open failed

# Usage

	p, err := pager.Open("users.db")
	if err != nil {
		return err
	}
	defer p.Close()

	page, err := p.Page(0)
	if err != nil {
		return err
	}
	if err := page.Write(0, data); err != nil {
		return err
	}
	return p.Flush(0)
*/
package pager
