package model

// Record is one flat enumeration entry produced by a record source.
// Path is slash-separated and relative to the scanned root; the caller
// normalizes separators and strips the root prefix before handing
// records to a Builder. Order of records does not matter.
type Record struct {
	Path  string
	Size  int64
	IsDir bool
}
