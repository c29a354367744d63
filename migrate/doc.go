// Package migrate reconciles the tags and edge types of the current space
// with a schema registry.
//
// NewPlan reads the live schemas with SHOW and DESCRIBE and returns the DDL
// that creates missing schemas and adds, changes or drops properties:
//
//	plan, err := migrate.NewPlan(ctx, client, reg, migrate.WithDrop())
//	if err != nil {
//	    return err
//	}
//	if plan.Result.HasErrors() {
//	    return errors.New(plan.Result.String())
//	}
//	return migrate.Apply(ctx, client, plan.Statements())
package migrate
