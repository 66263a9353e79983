package parser

// Statement is the interface implemented by all command AST nodes.
// The unexported marker method restricts implementations to this package.
type Statement interface {
	statementNode()
}

// CreateDatabaseStmt: CREATE DATABASE <name>
type CreateDatabaseStmt struct {
	Name string
}

// UseStmt: USE <name>
type UseStmt struct {
	Name string
}

// ShowDatabasesStmt: SHOW DATABASES
type ShowDatabasesStmt struct{}

// DropDatabaseStmt: DROP DATABASE <name>
type DropDatabaseStmt struct {
	Name string
}

// InsertStmt: INSERT INTO table VALUES (<id>, '<name>')
type InsertStmt struct {
	ID   int64
	Name string
}

// SelectStmt: SELECT * FROM table WHERE id = <id>
type SelectStmt struct {
	ID int64
}

// SelectAllStmt: SELECT * FROM table
type SelectAllStmt struct{}

// UpdateStmt: UPDATE table SET <column> = '<value>' WHERE id = <id>
type UpdateStmt struct {
	Column string
	Value  string
	ID     int64
}

// DeleteStmt: DELETE FROM table WHERE id = <id>
type DeleteStmt struct {
	ID int64
}

func (*CreateDatabaseStmt) statementNode() {}
func (*UseStmt) statementNode()            {}
func (*ShowDatabasesStmt) statementNode()  {}
func (*DropDatabaseStmt) statementNode()   {}
func (*InsertStmt) statementNode()         {}
func (*SelectStmt) statementNode()         {}
func (*SelectAllStmt) statementNode()      {}
func (*UpdateStmt) statementNode()         {}
func (*DeleteStmt) statementNode()         {}
