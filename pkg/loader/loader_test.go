package loader

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vanderheijden86/netscope/pkg/model"
	"github.com/vanderheijden86/netscope/pkg/testutil"
)

const sampleYAML = `
self: you
nodes:
  - {id: you, type: you, label: "0x06df...fefe", balance: "258.06", private: true}
  - {id: pool_1, type: pool, label: "0x04a2...3b1c", tvl: "125,430", validators: 24}
  - {id: validator_1, type: validator, label: "0x9f1e", earnings: "12.5/day", uptime: "99.8%"}
  - {id: client_1, type: client, label: "0xc1", jobs: 156, spent: "2,340", private: true}
edges:
  - {from: you, to: pool_1, type: stake, amount: "100", private: true}
  - {from: pool_1, to: validator_1, type: delegation}
  - {from: client_1, to: validator_1, type: job, self_activity: true}
  - {from: you, to: client_1, type: payment, self_activity: false}
`

const sampleJSON = `{
  "self": "you",
  "nodes": [
    {"id": "you", "type": "you", "label": "0x06df...fefe", "balance": "258.06", "private": true},
    {"id": "pool_1", "type": "pool", "label": "0x04a2...3b1c", "tvl": "125,430", "validators": 24},
    {"id": "validator_1", "type": "validator", "label": "0x9f1e", "earnings": "12.5/day", "uptime": "99.8%"},
    {"id": "client_1", "type": "client", "label": "0xc1", "jobs": 156, "spent": "2,340", "private": true}
  ],
  "edges": [
    {"from": "you", "to": "pool_1", "type": "stake", "amount": "100", "private": true},
    {"from": "pool_1", "to": "validator_1", "type": "delegation"},
    {"from": "client_1", "to": "validator_1", "type": "job", "self_activity": true},
    {"from": "you", "to": "client_1", "type": "payment", "self_activity": false}
  ]
}`

func collect(warnings *[]string) ParseOptions {
	return ParseOptions{WarningHandler: func(msg string) { *warnings = append(*warnings, msg) }}
}

func TestParseYAMLAndJSONAgree(t *testing.T) {
	var warnings []string
	y, err := Parse(strings.NewReader(sampleYAML), collect(&warnings))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	j, err := Parse(strings.NewReader(sampleJSON), collect(&warnings))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !reflect.DeepEqual(y, j) {
		t.Errorf("yaml and json decoded differently:\n%+v\n%+v", y, j)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	testutil.AssertNodeCount(t, y, 4)
	pool, _ := y.Node("pool_1")
	if d, ok := pool.Details.(model.PoolDetails); !ok || d.TVL != "125,430" || d.Validators != 24 {
		t.Errorf("pool details = %#v", pool.Details)
	}
	client, _ := y.Node("client_1")
	if d, ok := client.Details.(model.ClientDetails); !ok || d.Jobs != 156 || !client.IsPrivate {
		t.Errorf("client = %#v", client)
	}
}

func TestSelfActivityDerivation(t *testing.T) {
	g, err := Parse(strings.NewReader(sampleYAML), ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{
		true,  // derived: touches you
		false, // derived: pool -> validator
		true,  // explicit
		false, // explicit override
	}
	for i, e := range g.Edges {
		if e.IsSelfActivity != want[i] {
			t.Errorf("edge %d (%s -> %s) self activity = %v, want %v", i, e.From, e.To, e.IsSelfActivity, want[i])
		}
	}
}

func TestUnknownNodeType(t *testing.T) {
	_, err := Parse(strings.NewReader(`nodes: [{id: x, type: wizard}]`), ParseOptions{})
	if err == nil || !strings.Contains(err.Error(), `"x"`) {
		t.Errorf("err = %v, want error naming the node", err)
	}
}

func TestSelfOverride(t *testing.T) {
	var warnings []string
	opts := collect(&warnings)
	opts.SelfID = "client_1"
	g, err := Parse(strings.NewReader(sampleYAML), opts)
	if err != nil {
		t.Fatal(err)
	}
	self, ok := g.Self()
	if !ok || self.ID != "client_1" {
		t.Fatalf("Self() = %v, %v", self, ok)
	}
	old, _ := g.Node("you")
	if old.Kind != model.KindClient {
		t.Errorf("previous viewer kind = %v, want client", old.Kind)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "balance 258.06 as spent") {
		t.Errorf("warnings = %v, want one demotion warning naming the balance", warnings)
	}
	if d, ok := old.Details.(model.ClientDetails); !ok || d.Spent != "258.06" {
		t.Errorf("previous viewer details = %#v, want balance carried into Spent", old.Details)
	}
	// derived flags follow the new viewer
	if g.Edges[0].IsSelfActivity {
		t.Error("you -> pool_1 no longer touches the viewer")
	}
	if g.Edges[1].IsSelfActivity {
		t.Error("pool -> validator should not be self activity")
	}
}

func TestMissingSelfOverrideWarns(t *testing.T) {
	var warnings []string
	opts := collect(&warnings)
	opts.SelfID = "nobody"
	if _, err := Parse(strings.NewReader(sampleYAML), opts); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, `self node "nobody" not found`) {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestDataErrorsAreWarnings(t *testing.T) {
	doc := `
nodes:
  - {id: you, type: you}
  - {id: you, type: pool}
edges:
  - {from: you, to: ghost}
`
	var warnings []string
	g, err := Parse(strings.NewReader(doc), collect(&warnings))
	if err != nil {
		t.Fatalf("data errors must not fail the parse: %v", err)
	}
	if len(g.Edges) != 1 {
		t.Error("dangling edge should be kept for the renderer to skip")
	}
	joined := strings.Join(warnings, "\n")
	for _, want := range []string{"duplicate_id", "dangling_edge"} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %s: %v", want, warnings)
		}
	}
}

func TestEmptyNodeIDIsSkipped(t *testing.T) {
	doc := `
nodes:
  - {id: "", type: you}
  - {id: you, type: you}
  - {id: a, type: client}
edges:
  - {from: you, to: a}
`
	var warnings []string
	g, err := Parse(strings.NewReader(doc), collect(&warnings))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("nodes = %v, want the empty id dropped", g.Nodes)
	}
	for _, n := range g.Nodes {
		if n.ID == "" {
			t.Error("node with empty id kept")
		}
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "empty_id: node 0 has no id") {
		t.Errorf("warnings = %v", warnings)
	}
	if strings.Contains(joined, "self_count") {
		t.Errorf("skipped node still counted as a viewer: %v", warnings)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"g.json", FormatJSON, false},
		{"G.YML", FormatYAML, false},
		{"dir/g.yaml", FormatYAML, false},
		{"g.csv", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectFormat(%q) err = %v", tt.path, err)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("DetectFormat(%q) err = %v, want ErrUnsupportedFormat", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBOMAndSniffing(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleJSON)...)
	g, err := Parse(bytes.NewReader(data), ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatalf("BOM-prefixed JSON: %v", err)
	}
	testutil.AssertNodeCount(t, g, 4)
}

func TestWriteRoundTrip(t *testing.T) {
	g := testutil.NewDefault().Network(3, 6, 4)
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, g, format); err != nil {
				t.Fatal(err)
			}
			back, err := Parse(&buf, ParseOptions{Format: format})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(g, back) {
				t.Errorf("round trip changed the graph")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteGraphFile(t, dir, "net.yaml", sampleYAML)
	g, err := LoadFile(path, ParseOptions{WarningHandler: func(string) {}})
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertNodeCount(t, g, 4)

	if _, err := LoadFile(dir+"/missing.json", ParseOptions{}); err == nil {
		t.Error("missing file should fail")
	}
	bad := testutil.WriteGraphFile(t, dir, "bad.json", "{nodes: oops")
	if _, err := LoadFile(bad, ParseOptions{}); err == nil || !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("invalid JSON err = %v, want path in message", err)
	}
}
