package db

// DatabaseRecord is one entry of sys.databases.
type DatabaseRecord struct {
	Name   string `csv:"name"`
	Status string `csv:"status"`
}

// DataFileRecord is one non-log file of a database.
type DataFileRecord struct {
	LogicalName  string `csv:"logical_name"`
	PhysicalPath string `csv:"physical_path"`
}

const StatusOnline = "ONLINE"
