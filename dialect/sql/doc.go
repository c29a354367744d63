// Package sql provides a dialect.Executor over database/sql.
//
// Any database/sql driver that accepts nGQL text can be used:
//
//	drv, err := sql.Open("nebula", dsn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//	client := model.NewClient(drv, reg)
//
// Statements run through QueryContext without arguments; literals are
// already rendered by carina. Every result row is scanned into a
// dialect.Row keyed by column name.
//
// A space selected with dialect.WithSpace pins a connection from the pool
// for the duration of the statement and its rows, and issues USE first.
package sql
