package model

// IndexColumns is the header row of every index.csv.
var IndexColumns = []string{"id", "moniker", "timestamp"}

// IndexRow is one line of an entity folder's index.csv.
type IndexRow struct {
	ID        string
	Moniker   string
	Timestamp string
}

// Index is the keyed view of an entity index: one row per id, kept in order of first appearance.
// Upserting an existing id replaces its row in place.
type Index struct {
	rows []IndexRow
	pos  map[string]int
}

// NewIndex builds an Index from rows in file order. Later duplicates win.
func NewIndex(rows ...IndexRow) *Index {
	idx := &Index{pos: make(map[string]int, len(rows))}
	for _, row := range rows {
		idx.Upsert(row)
	}
	return idx
}

// Upsert inserts row or replaces the row with the same id. It reports whether the id was new.
func (x *Index) Upsert(row IndexRow) bool {
	if x.pos == nil {
		x.pos = make(map[string]int)
	}
	if i, ok := x.pos[row.ID]; ok {
		x.rows[i] = row
		return false
	}
	x.pos[row.ID] = len(x.rows)
	x.rows = append(x.rows, row)
	return true
}

// Get returns the row for id.
func (x *Index) Get(id string) (IndexRow, bool) {
	if x == nil {
		return IndexRow{}, false
	}
	i, ok := x.pos[id]
	if !ok {
		return IndexRow{}, false
	}
	return x.rows[i], true
}

// Has reports whether id is indexed.
func (x *Index) Has(id string) bool {
	_, ok := x.Get(id)
	return ok
}

// Len returns the number of distinct ids.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.rows)
}

// Rows returns a copy of the rows in order.
func (x *Index) Rows() []IndexRow {
	if x == nil {
		return nil
	}
	out := make([]IndexRow, len(x.rows))
	copy(out, x.rows)
	return out
}

// IDs returns the indexed ids in order.
func (x *Index) IDs() []string {
	if x == nil {
		return nil
	}
	ids := make([]string, len(x.rows))
	for i, row := range x.rows {
		ids[i] = row.ID
	}
	return ids
}
