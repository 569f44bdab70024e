package report

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
)

type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Time      string      `xml:"time,attr"`
	Timestamp string      `xml:"timestamp,attr,omitempty"`
	Cases     []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// WriteJUnit emits one testsuite per group and one testcase per check.
func WriteJUnit(w io.Writer, sum harness.Summary) error {
	doc := junitSuites{
		Name:     "requestqa",
		Tests:    sum.Total,
		Failures: sum.Failed,
		Time:     seconds(sum.Elapsed.Seconds()),
	}
	index := make(map[string]int)
	for _, g := range sum.Groups() {
		index[g] = len(doc.Suites)
		doc.Suites = append(doc.Suites, junitSuite{Name: g})
	}

	suiteTime := make([]float64, len(doc.Suites))
	for _, r := range sum.Results {
		i := index[r.Group]
		s := &doc.Suites[i]
		if s.Timestamp == "" && !r.At.IsZero() {
			s.Timestamp = r.At.UTC().Format("2006-01-02T15:04:05")
		}
		tc := junitCase{
			Name:      r.Name,
			Classname: r.Group + "." + r.Scenario,
			Time:      seconds(r.Duration.Seconds()),
		}
		if !r.Success {
			tc.Failure = &junitFailure{Message: r.Message, Type: "CheckFailed", Body: r.Message}
			s.Failures++
		}
		s.Tests++
		suiteTime[i] += r.Duration.Seconds()
		s.Cases = append(s.Cases, tc)
	}
	for i := range doc.Suites {
		doc.Suites[i].Time = seconds(suiteTime[i])
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func seconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}
