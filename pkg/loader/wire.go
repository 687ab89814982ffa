package loader

// File is the on-disk graph document shared by the JSON and YAML formats.
type File struct {
	Self  string       `json:"self,omitempty" yaml:"self,omitempty"`
	Nodes []NodeRecord `json:"nodes" yaml:"nodes"`
	Edges []EdgeRecord `json:"edges" yaml:"edges"`
}

// NodeRecord is one node. Only the detail fields of the node's type are read.
type NodeRecord struct {
	ID      string `json:"id" yaml:"id"`
	Type    string `json:"type" yaml:"type"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Private bool   `json:"private,omitempty" yaml:"private,omitempty"`

	// you
	Balance        string `json:"balance,omitempty" yaml:"balance,omitempty"`
	PrivateBalance string `json:"private_balance,omitempty" yaml:"private_balance,omitempty"`
	// pool
	TVL        string `json:"tvl,omitempty" yaml:"tvl,omitempty"`
	Validators int    `json:"validators,omitempty" yaml:"validators,omitempty"`
	// validator
	Earnings string `json:"earnings,omitempty" yaml:"earnings,omitempty"`
	Uptime   string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	// client
	Jobs  int    `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	Spent string `json:"spent,omitempty" yaml:"spent,omitempty"`
}

// EdgeRecord is one directed edge. A nil SelfActivity is derived from the
// endpoints.
type EdgeRecord struct {
	From         string `json:"from" yaml:"from"`
	To           string `json:"to" yaml:"to"`
	Type         string `json:"type,omitempty" yaml:"type,omitempty"`
	Amount       string `json:"amount,omitempty" yaml:"amount,omitempty"`
	Private      bool   `json:"private,omitempty" yaml:"private,omitempty"`
	SelfActivity *bool  `json:"self_activity,omitempty" yaml:"self_activity,omitempty"`
}
