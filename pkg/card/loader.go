package card

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/aldnet/pkg/diag"
)

// Default drive type for OUTPUT pins that do not declare one.
const defaultDriveCode = "AH_PD"

type indexFile struct {
	Cards []string `yaml:"cards"`
}

type cardFile struct {
	Description string    `yaml:"description"`
	Pins        yaml.Node `yaml:"pins"`
}

type pinFile struct {
	Type      string `yaml:"type"`
	DriveType string `yaml:"drivetype"`
	Tie       string `yaml:"tie"`
}

// ReadIndex reads a cards.yaml index and returns the card codes it lists.
func ReadIndex(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("card: read index: %w", err)
	}
	var idx indexFile
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, &diag.Error{Kind: diag.KindFormat, Subject: path, Err: err}
	}
	return idx.Cards, nil
}

// LoadFile reads one card metadata file and tags every failure with code.
func LoadFile(path, code string) (*CardMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("card: load %s: %w", code, err)
	}
	return Decode(data, code)
}

// Decode parses card metadata YAML. The pins mapping is walked node by node
// so declaration order survives.
func Decode(data []byte, code string) (*CardMeta, error) {
	var cf cardFile
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&cf); err != nil {
		return nil, &diag.Error{Kind: diag.KindFormat, Subject: code, Err: err}
	}
	if cf.Pins.Kind != yaml.MappingNode {
		return nil, diag.Newf(diag.KindFormat, code, "pins must be a map")
	}

	var pins []PinMeta
	for i := 0; i+1 < len(cf.Pins.Content); i += 2 {
		id := cf.Pins.Content[i].Value
		node := cf.Pins.Content[i+1]
		if node.Kind != yaml.MappingNode {
			return nil, diag.Newf(diag.KindFormat, code, "pin %s must be a map", id)
		}
		var pf pinFile
		if err := node.Decode(&pf); err != nil {
			return nil, &diag.Error{Kind: diag.KindFormat, Subject: code, Detail: "pin " + id, Err: err}
		}
		pm, err := pf.meta(id)
		if err != nil {
			return nil, &diag.Error{Kind: diag.KindFormat, Subject: code, Detail: "pin " + id, Err: err}
		}
		pins = append(pins, pm)
	}
	return NewCardMeta(code, cf.Description, pins), nil
}

func (pf pinFile) meta(id string) (PinMeta, error) {
	typ, err := ParsePinType(pf.Type)
	if err != nil {
		return PinMeta{}, err
	}
	driveCode := defaultDriveCode
	if pf.DriveType != "" {
		driveCode = pf.DriveType
	}
	drive, err := ParseDriveType(driveCode)
	if err != nil {
		return PinMeta{}, err
	}
	tie := TieNone
	if typ == PinPassive && pf.Tie != "" {
		if tie, err = ParseTieType(pf.Tie); err != nil {
			return PinMeta{}, err
		}
	}
	return PinMeta{ID: id, Type: typ, Drive: drive, Tie: tie}, nil
}
