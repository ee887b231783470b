// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package state

import "github.com/holiman/uint256"

// GasPrices is the EOS-EVM chain's per-resource price table (storage, and
// whatever other resources the EVM meters), carried alongside ChainConfig.
type GasPrices struct {
	StoragePrice *uint256.Int
}

// GasParams is the opaque set of resource unit prices handed to the EVM and
// to intrinsic-gas computation. Its exact resource vocabulary is owned by
// the EVM implementation (an injected collaborator); this package only
// needs to be able to scale it uniformly for EOS-EVM version >= 3.
type GasParams struct {
	Values map[string]*uint256.Int
}

// ApplyDiscountFactor returns a copy of g with every resource price scaled
// by num/den, mirroring evmone::gas_parameters::apply_discount_factor.
// Callers must ensure den > 0.
func (g GasParams) ApplyDiscountFactor(num, den *uint256.Int) GasParams {
	out := GasParams{Values: make(map[string]*uint256.Int, len(g.Values))}
	for k, v := range g.Values {
		scaled := new(uint256.Int).Mul(v, num)
		scaled.Div(scaled, den)
		out.Values[k] = scaled
	}
	return out
}
