package inventory

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Inventory is the parsed host layout extracted from terraform outputs.
type Inventory struct {
	Web []string
	DB  []string
}

type outputValue struct {
	Value []string `json:"value"`
}

type terraformOutputs struct {
	WebPublicIPs outputValue `json:"web_public_ips"`
	DBPrivateIPs outputValue `json:"db_private_ips"`
}

// Parse reads a terraform outputs JSON document.
func Parse(r io.Reader) (Inventory, error) {
	var outputs terraformOutputs
	if err := json.NewDecoder(r).Decode(&outputs); err != nil {
		return Inventory{}, fmt.Errorf("decoding terraform outputs: %w", err)
	}
	return Inventory{
		Web: outputs.WebPublicIPs.Value,
		DB:  outputs.DBPrivateIPs.Value,
	}, nil
}

// Render produces the grouped ansible inventory text. The first web host is
// used as the jump host for the db group when one exists.
func (inv Inventory) Render() string {
	var b strings.Builder

	b.WriteString("[web]\n")
	for _, ip := range inv.Web {
		b.WriteString(ip)
		b.WriteString("\n")
	}

	b.WriteString("\n[db]\n")
	for _, ip := range inv.DB {
		b.WriteString(ip)
		b.WriteString("\n")
	}

	if len(inv.Web) > 0 {
		b.WriteString("\n[db:vars]\n")
		fmt.Fprintf(&b, "ansible_ssh_common_args=-o ProxyJump=ec2-user@%s\n", inv.Web[0])
	}

	return b.String()
}

// Transform parses terraform outputs from r and writes the rendered
// inventory to w. Stateless and deterministic.
func Transform(r io.Reader, w io.Writer) error {
	inv, err := Parse(r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, inv.Render())
	return err
}
