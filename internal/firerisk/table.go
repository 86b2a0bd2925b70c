package firerisk

// Row maps a column name to its raw cell text. A column absent from the map is
// a missing cell.
type Row map[string]string

// Table is an ordered set of raw readings as read from the feed.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Rename returns a copy of the table with columns renamed according to
// renames. Columns without an entry keep their name.
func (t Table) Rename(renames map[string]string) Table {
	out := Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, c := range t.Columns {
		out.Columns[i] = renamed(renames, c)
	}
	for i, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[renamed(renames, k)] = v
		}
		out.Rows[i] = nr
	}
	return out
}

func renamed(renames map[string]string, name string) string {
	if to, ok := renames[name]; ok {
		return to
	}
	return name
}

// MissingColumns returns the required columns absent from the table, in the
// order they are listed in required.
func (t Table) MissingColumns(required []string) []string {
	present := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = struct{}{}
	}

	var missing []string
	for _, c := range required {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Head returns a copy of the table limited to the first n rows.
func (t Table) Head(n int) Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, n),
	}
	for i := 0; i < n; i++ {
		r := make(Row, len(t.Rows[i]))
		for k, v := range t.Rows[i] {
			r[k] = v
		}
		out.Rows[i] = r
	}
	return out
}
