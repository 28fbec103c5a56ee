package tasks

// Progress receives one Add(1) per finished task. Describe is called with a
// short label of the feed being fetched. Implementations must be safe for
// concurrent use; *progressbar.ProgressBar satisfies it.
type Progress interface {
	Describe(description string)
	Add(num int) error
}

type noProgress struct{}

func (noProgress) Describe(string) {}

func (noProgress) Add(int) error { return nil }
