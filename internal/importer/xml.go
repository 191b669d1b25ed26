// Package importer bulk-loads rows into a rowstore database.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	rserrors "github.com/FocuswithJustin/rowstore/core/errors"
	"github.com/FocuswithJustin/rowstore/core/rowstore"
	"github.com/FocuswithJustin/rowstore/internal/logging"
)

// DefaultXPath selects every <user> element in the document.
const DefaultXPath = "//user"

// FromXML inserts one row per node matched by expr. Each node supplies id,
// username and email either as attributes or as child elements:
//
//	<user id="1"><username>alice</username><email>a@x</email></user>
//	<user id="2" username="bob" email="b@x"/>
//
// Rows are inserted in document order. It stops at the first bad node or
// failed insert and returns how many rows were inserted before it.
func FromXML(db *rowstore.DB, r io.Reader, expr string) (int, error) {
	if strings.TrimSpace(expr) == "" {
		expr = DefaultXPath
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return 0, &rserrors.ParseError{Format: "XPath", Input: expr, Message: err.Error()}
	}

	doc, err := xmlquery.Parse(r)
	if err != nil {
		return 0, &rserrors.ParseError{Format: "XML", Message: err.Error()}
	}

	nodes := xmlquery.QuerySelectorAll(doc, compiled)
	inserted := 0
	for i, node := range nodes {
		rec, err := recordFromNode(node)
		if err != nil {
			return inserted, fmt.Errorf("node %d: %w", i+1, err)
		}
		if err := db.Insert(rec); err != nil {
			return inserted, fmt.Errorf("node %d: %w", i+1, err)
		}
		inserted++
	}

	logging.Info("xml_imported", "path", db.Path(), "xpath", expr, "matched", len(nodes), "rows", inserted)
	return inserted, nil
}

func recordFromNode(node *xmlquery.Node) (*rowstore.Record, error) {
	rawID, ok := field(node, "id")
	if !ok {
		return nil, rserrors.NewValidation("id", "missing")
	}
	id, err := strconv.ParseUint(strings.TrimSpace(rawID), 10, 16)
	if err != nil {
		return nil, &rserrors.ValidationError{Field: "id", Value: rawID, Message: "must be an integer between 0 and 65535"}
	}

	username, ok := field(node, "username")
	if !ok {
		return nil, rserrors.NewValidation("username", "missing")
	}
	email, ok := field(node, "email")
	if !ok {
		return nil, rserrors.NewValidation("email", "missing")
	}

	return rowstore.NewRecord(uint16(id), username, email)
}

// field returns an attribute of node, or the text of its first child element
// with that name.
func field(node *xmlquery.Node, name string) (string, bool) {
	for _, attr := range node.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	if child := xmlquery.FindOne(node, "./"+name); child != nil {
		return strings.TrimSpace(child.InnerText()), true
	}
	return "", false
}
