package report

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/kozaktomas/image-cluster/internal/cluster"
)

func sampleReport() *Report {
	res := &cluster.Result{
		Clusters: [][]int{{0, 2}, {1, 3, 4}},
		Unique:   []int{5},
		Hashed:   6,
	}
	ids := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"}
	return Assemble(res, func(i int) string { return ids[i] })
}

func TestAssemble(t *testing.T) {
	rep := sampleReport()

	wantClusters := [][]string{{"a.jpg", "c.jpg"}, {"b.jpg", "d.jpg", "e.jpg"}}
	if !reflect.DeepEqual(rep.Clusters, wantClusters) {
		t.Errorf("clusters = %v; want %v", rep.Clusters, wantClusters)
	}
	if want := []string{"f.jpg"}; !reflect.DeepEqual(rep.Unique, want) {
		t.Errorf("unique = %v; want %v", rep.Unique, want)
	}
	if rep.Hashed != 6 {
		t.Errorf("hashed = %d; want 6", rep.Hashed)
	}
}

func TestWriteMultiLine(t *testing.T) {
	tests := []struct {
		name       string
		withUnique bool
		want       string
	}{
		{
			name: "clusters only",
			want: "image cluster 0:\na.jpg\nc.jpg\nimage cluster 1:\nb.jpg\nd.jpg\ne.jpg\n",
		},
		{
			name:       "with unique",
			withUnique: true,
			want:       "image cluster 0:\na.jpg\nc.jpg\nimage cluster 1:\nb.jpg\nd.jpg\ne.jpg\nunique images:\nf.jpg\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := sampleReport().WriteMultiLine(&buf, tc.withUnique); err != nil {
				t.Fatalf("WriteMultiLine failed: %v", err)
			}
			if buf.String() != tc.want {
				t.Errorf("output = %q; want %q", buf.String(), tc.want)
			}
		})
	}
}

func TestWriteOneLine(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteOneLine(&buf, true); err != nil {
		t.Fatalf("WriteOneLine failed: %v", err)
	}

	want := "a.jpg\tc.jpg\nb.jpg\td.jpg\te.jpg\nf.jpg\n"
	if buf.String() != want {
		t.Errorf("output = %q; want %q", buf.String(), want)
	}
}

func TestWriteOneLine_NoUniqueRecordWithoutFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteOneLine(&buf, false); err != nil {
		t.Fatalf("WriteOneLine failed: %v", err)
	}
	if strings.Contains(buf.String(), "f.jpg") {
		t.Errorf("unique item leaked into output: %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{Threshold: 0.2, Algo: "phash", Workers: 4}
	if err := sampleReport().WriteJSON(&buf, meta); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var out struct {
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
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out.RunID == "" {
		t.Error("run_id should not be empty")
	}
	if out.Threshold != 0.2 || out.Algo != "phash" || out.Workers != 4 {
		t.Errorf("meta = %g/%s/%d; want 0.2/phash/4", out.Threshold, out.Algo, out.Workers)
	}
	if out.ClusterCount != 2 || len(out.Clusters) != 2 {
		t.Errorf("cluster count = %d (%d entries); want 2", out.ClusterCount, len(out.Clusters))
	}
	if out.UniqueCount != 1 || !reflect.DeepEqual(out.Unique, []string{"f.jpg"}) {
		t.Errorf("unique = %v (count %d); want [f.jpg]", out.Unique, out.UniqueCount)
	}
	if out.Hashed != 6 {
		t.Errorf("hashed = %d; want 6", out.Hashed)
	}
}

func TestWriteJSON_EmptyResult(t *testing.T) {
	rep := Assemble(&cluster.Result{}, func(i int) string { return "" })

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf, Meta{}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	// Empty collections must serialize as [] rather than null.
	s := buf.String()
	if strings.Contains(s, "null") {
		t.Errorf("output contains null: %q", s)
	}
}
