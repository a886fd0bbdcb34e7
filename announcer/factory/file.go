package factory

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nodeops-io/tx-announcer/types"
	"github.com/nodeops-io/tx-announcer/util"
)

// Placeholders that may appear in an operation payload. They are replaced
// by the hex public keys of the node before decoding.
const (
	MainPublicKeyPlaceholder   = "${mainPublicKey}"
	RemotePublicKeyPlaceholder = "${remotePublicKey}"
	VrfPublicKeyPlaceholder    = "${vrfPublicKey}"
)

// OperationSpec is one operation as written in the operations file.
type OperationSpec struct {
	Kind        string `yaml:"kind"`
	Payload     string `yaml:"payload"`
	Fee         uint64 `yaml:"fee,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type NodeOperations struct {
	Operations []OperationSpec `yaml:"operations"`
}

// OperationsFile is the content of the operations file. Defaults apply to
// every node without an entry of its own; Presets replace the node entries
// for one network preset.
type OperationsFile struct {
	Defaults []OperationSpec                      `yaml:"defaults,omitempty"`
	Nodes    map[string]NodeOperations            `yaml:"nodes,omitempty"`
	Presets  map[string]map[string]NodeOperations `yaml:"presets,omitempty"`
}

// FileFactory creates operations from an operations file loaded once.
type FileFactory struct {
	file *OperationsFile
}

func NewFileFactory(file *OperationsFile) *FileFactory {
	return &FileFactory{file: file}
}

// LoadFileFactory reads the operations file at path. A missing file yields
// a factory that creates nothing.
func LoadFileFactory(path string) (*FileFactory, error) {
	if !util.FileExists(path) {
		return NewFileFactory(&OperationsFile{}), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read operations file %s: %w", path, err)
	}

	var file OperationsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse operations file %s: %w", path, err)
	}
	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid operations file %s: %w", path, err)
	}

	return NewFileFactory(&file), nil
}

func (f *OperationsFile) Validate() error {
	check := func(where string, specs []OperationSpec) error {
		for i, s := range specs {
			if s.Kind == "" {
				return fmt.Errorf("%s: operation #%d has no kind", where, i)
			}
			if s.Payload == "" {
				return fmt.Errorf("%s: operation #%d has no payload", where, i)
			}
		}

		return nil
	}

	if err := check("defaults", f.Defaults); err != nil {
		return err
	}
	for name, n := range f.Nodes {
		if err := check("node "+name, n.Operations); err != nil {
			return err
		}
	}
	for preset, nodes := range f.Presets {
		for name, n := range nodes {
			if err := check(fmt.Sprintf("preset %s node %s", preset, name), n.Operations); err != nil {
				return err
			}
		}
	}

	return nil
}

// specsFor resolves the operations of a node: the preset entry first, then
// the node entry, then the defaults.
func (f *OperationsFile) specsFor(preset, node string) []OperationSpec {
	if nodes, ok := f.Presets[preset]; ok {
		if n, ok := nodes[node]; ok {
			return n.Operations
		}
	}
	if n, ok := f.Nodes[node]; ok {
		return n.Operations
	}

	return f.Defaults
}

func (ff *FileFactory) CreateOperations(ctx context.Context, req types.FactoryRequest) ([]types.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	specs := ff.file.specsFor(req.Preset, req.Node.Name)
	replacer := strings.NewReplacer(
		MainPublicKeyPlaceholder, req.MainAccount.PublicKey,
		RemotePublicKeyPlaceholder, req.NodeAccount.RemotePublicKey,
		VrfPublicKeyPlaceholder, req.NodeAccount.VrfPublicKey,
	)

	ops := make([]types.Operation, 0, len(specs))
	for i, s := range specs {
		if missing := missingKey(s.Payload, req); missing != "" {
			return nil, fmt.Errorf("operation #%d of node %s needs the %s which is unknown", i, req.Node.Name, missing)
		}
		payload, err := util.DecodeHex(replacer.Replace(s.Payload))
		if err != nil {
			return nil, fmt.Errorf("operation #%d of node %s has an invalid payload: %w", i, req.Node.Name, err)
		}

		fee := s.Fee
		if fee == 0 || fee > req.MaxFee {
			fee = req.MaxFee
		}
		desc := s.Description
		if desc == "" {
			desc = fmt.Sprintf("%s %s", s.Kind, shortHex(payload))
		}

		ops = append(ops, types.Operation{
			Kind:        s.Kind,
			Payload:     payload,
			Fee:         fee,
			Description: desc,
		})
	}

	return ops, nil
}

func missingKey(payload string, req types.FactoryRequest) string {
	switch {
	case strings.Contains(payload, MainPublicKeyPlaceholder) && req.MainAccount.PublicKey == "":
		return "main public key"
	case strings.Contains(payload, RemotePublicKeyPlaceholder) && req.NodeAccount.RemotePublicKey == "":
		return "remote public key"
	case strings.Contains(payload, VrfPublicKeyPlaceholder) && req.NodeAccount.VrfPublicKey == "":
		return "vrf public key"
	}

	return ""
}

func shortHex(b []byte) string {
	s := hex.EncodeToString(b)
	if len(s) > 16 {
		return s[:16] + "..."
	}

	return s
}
