// Package report turns the index-based result of a clustering run back
// into external identifiers and renders the output records.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/kozaktomas/image-cluster/internal/cluster"
)

// Report holds clusters and unique items as identifiers, in stable
// order: clusters in discovery order, identifiers ascending by corpus
// index within each cluster.
type Report struct {
	Clusters [][]string
	Unique   []string
	Hashed   int
}

// Meta describes the run parameters echoed in JSON output.
type Meta struct {
	Threshold float64
	Algo      string
	Workers   int
}

// jsonOutput is the structure written by WriteJSON.
type jsonOutput struct {
	RunID        string     `json:"run_id"`
	Threshold    float64    `json:"threshold"`
	Algo         string     `json:"algo"`
	Workers      int        `json:"workers"`
	Clusters     [][]string `json:"clusters"`
	ClusterCount int        `json:"cluster_count"`
	Unique       []string   `json:"unique"`
	UniqueCount  int        `json:"unique_count"`
	Hashed       int        `json:"hashed"`
}

// Assemble maps the result's indices to identifiers via id.
func Assemble(res *cluster.Result, id func(int) string) *Report {
	clusters := make([][]string, len(res.Clusters))
	for i, members := range res.Clusters {
		clusters[i] = make([]string, len(members))
		for j, m := range members {
			clusters[i][j] = id(m)
		}
	}

	unique := make([]string, len(res.Unique))
	for i, m := range res.Unique {
		unique[i] = id(m)
	}

	return &Report{Clusters: clusters, Unique: unique, Hashed: res.Hashed}
}

// WriteMultiLine prints each cluster under a numbered header, one
// identifier per line, matching the tool's default human output.
func (r *Report) WriteMultiLine(w io.Writer, withUnique bool) error {
	for i, members := range r.Clusters {
		if _, err := fmt.Fprintf(w, "image cluster %d:\n", i); err != nil {
			return err
		}
		for _, id := range members {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
	}
	if withUnique && len(r.Unique) > 0 {
		if _, err := fmt.Fprintln(w, "unique images:"); err != nil {
			return err
		}
		for _, id := range r.Unique {
			if _, err := fmt.Fprintln(w, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteOneLine prints each cluster as a single tab-separated line and
// nothing else, suitable for piping into other tools. The unique
// record, if requested, is one final tab-separated line.
func (r *Report) WriteOneLine(w io.Writer, withUnique bool) error {
	for _, members := range r.Clusters {
		if _, err := fmt.Fprintln(w, strings.Join(members, "\t")); err != nil {
			return err
		}
	}
	if withUnique && len(r.Unique) > 0 {
		if _, err := fmt.Fprintln(w, strings.Join(r.Unique, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON emits the full report with a fresh run id and the run
// parameters.
func (r *Report) WriteJSON(w io.Writer, meta Meta) error {
	out := jsonOutput{
		RunID:        uuid.NewString(),
		Threshold:    meta.Threshold,
		Algo:         meta.Algo,
		Workers:      meta.Workers,
		Clusters:     r.Clusters,
		ClusterCount: len(r.Clusters),
		Unique:       r.Unique,
		UniqueCount:  len(r.Unique),
		Hashed:       r.Hashed,
	}
	if out.Clusters == nil {
		out.Clusters = [][]string{}
	}
	if out.Unique == nil {
		out.Unique = []string{}
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
