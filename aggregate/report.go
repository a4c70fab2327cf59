package aggregate

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

type jsonReport struct {
	Results []Result `json:"results"`
}

// WriteJSON writes results as {"results": [...]}.
func WriteJSON(w io.Writer, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(jsonReport{Results: results}); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

type xmlReport struct {
	XMLName xml.Name    `xml:"results"`
	Results []xmlResult `xml:"result"`
}

type xmlResult struct {
	Key          string           `xml:"id,attr"`
	ID           string           `xml:"id"`
	Command      string           `xml:"command"`
	Measurements []xmlMeasurement `xml:"measurements>measurement"`
}

type xmlMeasurement struct {
	Index              int    `xml:"id,attr"`
	Start              string `xml:"start"`
	Finish             string `xml:"finish"`
	CostInSeconds      string `xml:"cost-in-seconds"`
	StartHumanReadable string `xml:"start-human-readable"`
}

// WriteXML writes results as a <results> tree with one <result> per
// configuration and one numbered <measurement> per cycle.
func WriteXML(w io.Writer, results []Result) error {
	report := xmlReport{Results: make([]xmlResult, 0, len(results))}
	for _, r := range results {
		x := xmlResult{
			Key:          r.ID,
			ID:           r.ID,
			Command:      r.Command,
			Measurements: make([]xmlMeasurement, 0, len(r.Measurements)),
		}
		for i, m := range r.Measurements {
			x.Measurements = append(x.Measurements, xmlMeasurement{
				Index:              i,
				Start:              formatFloat(m.Start),
				Finish:             formatFloat(m.Finish),
				CostInSeconds:      formatFloat(m.CostInSeconds),
				StartHumanReadable: m.StartHumanReadable,
			})
		}
		report.Results = append(report.Results, x)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to serialize to XML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
