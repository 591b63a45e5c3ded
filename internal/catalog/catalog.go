// Package catalog reads and writes tabular product catalogs. It is the I/O
// collaborator around the pipeline core: all delimiter, decimal-separator,
// and encoding concerns live here, none in the pipeline itself.
package catalog

import (
	"strconv"
	"strings"

	"github.com/gmendonca/selo/internal/engine"
	"github.com/gmendonca/selo/internal/model"
)

// Columns binds the recognized attributes to header names for a run. Any of
// them may be absent from the source table.
type Columns struct {
	Title    string
	Price    string
	Seller   string
	Category string
	Claim    string
	Quality  string
}

// DefaultColumns returns the column names the source catalogs use.
func DefaultColumns() Columns {
	return Columns{
		Title:    "titulo",
		Price:    "preco",
		Seller:   "vendedor",
		Category: "tipo_cartucho",
		Claim:    "originalidade",
		Quality:  "nota_qualidade",
	}
}

// Derived output column names. Inputs carrying these columns have them
// discarded on read and recomputed, never merged.
const (
	ColTrustLevel = "seller_trust_level"
	ColAvgPrice   = "preco_medio_categoria"
	ColDeviation  = "desvio_preco_media_categoria"
	ColLabel      = "label_heuristico_calculado"
)

func derivedColumn(name string) bool {
	switch name {
	case ColTrustLevel, ColAvgPrice, ColDeviation, ColLabel:
		return true
	}
	return false
}

// Table is a loaded catalog: the rows plus the shape information the
// pipeline needs to degrade gracefully when columns are missing.
type Table struct {
	Listings []*model.Listing
	Attrs    engine.Attributes

	// extraOrder preserves the source order of pass-through columns so a
	// read-classify-write round trip keeps a stable layout.
	extraOrder []string
	cols       Columns
}

// row converts one header-indexed record into a Listing.
func (t *Table) row(header []string, cells []string) *model.Listing {
	l := &model.Listing{Extra: make(map[string]string)}
	for i, name := range header {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		switch name {
		case t.cols.Title:
			l.Title = cell
		case t.cols.Price:
			l.RawPrice = cell
		case t.cols.Seller:
			if cell != "" {
				s := cell
				l.Seller = &s
			}
		case t.cols.Category:
			l.Category = cell
		case t.cols.Claim:
			if cell != "" {
				c := cell
				l.OriginalityClaim = &c
			}
		case t.cols.Quality:
			l.RawQuality = cell
		default:
			if !derivedColumn(name) {
				l.Extra[name] = cell
			}
		}
	}
	return l
}

// load builds a Table from a header row and data rows. Shared by the CSV and
// XLSX readers.
func load(header []string, rows [][]string, cols Columns) *Table {
	t := &Table{cols: cols}
	for _, name := range header {
		switch name {
		case cols.Price:
			t.Attrs.HasPrice = true
		case cols.Seller:
			t.Attrs.HasSeller = true
		case cols.Category:
			t.Attrs.HasCategory = true
		case cols.Claim:
			t.Attrs.HasClaim = true
		case cols.Quality:
			t.Attrs.HasQuality = true
		case cols.Title:
		default:
			if !derivedColumn(name) {
				t.extraOrder = append(t.extraOrder, name)
			}
		}
	}
	t.Listings = make([]*model.Listing, 0, len(rows))
	for _, cells := range rows {
		t.Listings = append(t.Listings, t.row(header, cells))
	}
	return t
}

// outputHeader is the column layout written back out: title first, the
// recognized raw columns that were present, pass-through columns in source
// order, then the derived columns.
func (t *Table) outputHeader() []string {
	var header []string
	header = append(header, t.cols.Title)
	if t.Attrs.HasPrice {
		header = append(header, t.cols.Price)
	}
	if t.Attrs.HasSeller {
		header = append(header, t.cols.Seller)
	}
	if t.Attrs.HasCategory {
		header = append(header, t.cols.Category)
	}
	if t.Attrs.HasClaim {
		header = append(header, t.cols.Claim)
	}
	if t.Attrs.HasQuality {
		header = append(header, t.cols.Quality)
	}
	header = append(header, t.extraOrder...)
	return append(header, ColTrustLevel, ColAvgPrice, ColDeviation, ColLabel)
}

// cellsFor renders one listing in outputHeader order. Numeric cells use the
// given decimal separator; missing numerics are empty cells.
func (t *Table) cellsFor(l *model.Listing, decimalComma bool) []string {
	var cells []string
	cells = append(cells, l.Title)
	if t.Attrs.HasPrice {
		cells = append(cells, formatFloat(l.Price, decimalComma))
	}
	if t.Attrs.HasSeller {
		cells = append(cells, strOrEmpty(l.Seller))
	}
	if t.Attrs.HasCategory {
		cells = append(cells, l.Category)
	}
	if t.Attrs.HasClaim {
		cells = append(cells, strOrEmpty(l.OriginalityClaim))
	}
	if t.Attrs.HasQuality {
		cells = append(cells, formatFloat(l.QualityScore, decimalComma))
	}
	for _, name := range t.extraOrder {
		cells = append(cells, l.Extra[name])
	}
	f := l.PriceDeviation
	return append(cells,
		strconv.Itoa(l.SellerTrustLevel),
		formatFloat(l.CategoryAvgPrice, decimalComma),
		formatFloat(&f, decimalComma),
		string(l.Label),
	)
}

func formatFloat(v *float64, decimalComma bool) string {
	if v == nil {
		return ""
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if decimalComma {
		s = strings.Replace(s, ".", ",", 1)
	}
	return s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
