package drive

import (
	"fmt"
	"time"

	"github.com/haierkeys/fast-drive-service/pkg/timex"
)

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// stepClock advances one minute on every read.
type stepClock struct {
	t time.Time
}

func (s *stepClock) Now() time.Time {
	s.t = s.t.Add(time.Minute)
	return s.t
}

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func testEditor() (*Editor, *stepClock) {
	clk := &stepClock{t: testEpoch}
	return NewEditor(WithClock(clk.Now), WithIDFunc(seqIDs("n"))), clk
}

var testDay = timex.DateOf(testEpoch)

// docsCollection is the two entry example: folder A "Docs" holding file B.
func docsCollection() *Collection {
	return NewCollection([]Entry{
		NewFolder("A", RootID, "Docs", testDay),
		NewFile("B", "A", "a.txt", 2048, testDay),
	})
}

func ids(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}
