package recommend

import (
	"github.com/abhisek/skillpath/internal/catalog"
	rec "github.com/abhisek/skillpath/internal/recommend"
)

// pickMsg carries the result of Start or Next.
type pickMsg struct {
	Pick rec.Pick
	Err  error
}

// generatedMsg carries a generation result. Seq identifies the request
// so results of dismissed requests can be dropped.
type generatedMsg struct {
	Seq     int
	Project *catalog.Project
	Err     error
}

// acceptedMsg carries the result of Accept or RetryPointer.
type acceptedMsg struct {
	Project *catalog.Project
	Err     error
}
