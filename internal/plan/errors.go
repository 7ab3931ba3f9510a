package plan

import "errors"

// The refactoring error taxonomy. The first three and ErrPlannerBudget are
// recoverable: the executor records them on the report and moves on.
// Parser and project I/O failures are fatal and surface as wrapped errors.
var (
	ErrDeclarationNotFound  = errors.New("function declaration not found")
	ErrAmbiguousDeclaration = errors.New("more than one function declaration matched")
	ErrCallNotFound         = errors.New("function not found")
	ErrPlannerBudget        = errors.New("requirement budget exceeded")
)

// Recoverable reports whether err is recorded as unimplemented rather than
// aborting the run.
func Recoverable(err error) bool {
	return errors.Is(err, ErrDeclarationNotFound) ||
		errors.Is(err, ErrAmbiguousDeclaration) ||
		errors.Is(err, ErrCallNotFound) ||
		errors.Is(err, ErrPlannerBudget)
}
