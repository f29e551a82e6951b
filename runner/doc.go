// Package runner applies migration expressions to a database.
//
// A Runner validates a batch of expressions, renders each one with the
// Informix generator and executes it in its own transaction:
//
//	cfg, err := runner.LoadConfig("migrix.yaml")
//	if err != nil {
//		return err
//	}
//	r, err := runner.Open(cfg)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	report, err := r.Apply(ctx, p.Expressions())
//
// A failing step is rolled back and reported as a *migrix.StepError.
package runner
