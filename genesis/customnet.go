// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/dposchain/ledger/dpos"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name       string         `yaml:"name"`
	PubKeyHash uint8          `yaml:"pubKeyHash"`
	LaunchTime uint64         `yaml:"launchTime"`
	Sender     dpos.PublicKey `yaml:"sender"`
	Accounts   []Account      `yaml:"accounts"`
	Delegates  []Delegate     `yaml:"delegates"`
	Exceptions []dpos.Bytes32 `yaml:"exceptions"`
}

// Account is an initial balance allocation.
type Account struct {
	Address dpos.Address          `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

// Delegate is a genesis delegate.
type Delegate struct {
	PublicKey dpos.PublicKey `yaml:"publicKey"`
	Username  string         `yaml:"username"`
}

// LoadCustomGenesis reads a custom genesis from a YAML file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var gen CustomGenesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Name == "" {
		return nil, errors.New("name must be set")
	}
	if gen.PubKeyHash == 0 {
		return nil, errors.New("pubKeyHash must be set")
	}
	if gen.Sender.IsZero() {
		return nil, errors.New("sender must be set")
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		Sender(gen.Sender)

	for _, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, errors.Errorf("%s: balance must be set", a.Address)
		}
		builder.Alloc(a.Address, (*big.Int)(a.Balance))
	}
	for _, d := range gen.Delegates {
		builder.Delegate(d.PublicKey, d.Username)
	}
	for _, id := range gen.Exceptions {
		builder.Exception(id)
	}

	return builder.Build(gen.Name, dpos.NewNetwork(gen.Name, gen.PubKeyHash))
}
