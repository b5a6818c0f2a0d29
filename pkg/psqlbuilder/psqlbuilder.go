package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder с PostgreSQL-плейсхолдерами ($1, $2, ...)
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select возвращает SELECT builder с Dollar-плейсхолдерами
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert возвращает INSERT builder с Dollar-плейсхолдерами
func Insert(into string) squirrel.InsertBuilder {
	return builder.Insert(into)
}

// Update возвращает UPDATE builder с Dollar-плейсхолдерами
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete возвращает DELETE builder с Dollar-плейсхолдерами
func Delete(from string) squirrel.DeleteBuilder {
	return builder.Delete(from)
}
