package db

// RunMigrations creates or updates the menu_items table. The primary key on
// id is the only index.
func RunMigrations(db *DB) error {
	return db.AutoMigrate(&MenuItem{})
}
