package history

import "database/sql"

// SetOpener replaces the database opener.
func (s *Store) SetOpener(open func(driverName, dataSourceName string) (*sql.DB, error)) {
	s.openDB = open
}
