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

import (
	"github.com/holiman/uint256"

	"github.com/erigontech/eosevm-interhashes/core/types"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/common"
	emath "github.com/erigontech/eosevm-interhashes/erigon-lib/common/math"
)

// kGTransaction is the flat base cost of a transaction; the v2 refund
// scheme never lets gas_used fall below it.
const kGTransaction = 21000

const (
	maxRefundQuotientFrontier = 2
	maxRefundQuotientLondon   = 5
)

// RefundScheme tags which of the three EOS-EVM refund regimes applies,
// selected purely by protocol version rather than scattering version
// comparisons through the execution path.
type RefundScheme int

const (
	// RefundSchemeQuotient is EOS-EVM version < 2: the classic Ethereum
	// max-refund-quotient clamp.
	RefundSchemeQuotient RefundScheme = iota
	// RefundSchemeClamp is EOS-EVM version == 2: refund in full but never
	// let gas_used drop below kGTransaction.
	RefundSchemeClamp
	// RefundSchemeV3 is EOS-EVM version >= 3: fee and refund are computed
	// together by an external, chain-specific routine (GasRefundV3Func).
	RefundSchemeV3
)

// RefundSchemeFor maps an EOS-EVM version to its refund regime.
func RefundSchemeFor(eosEVMVersion int) RefundScheme {
	switch {
	case eosEVMVersion >= 3:
		return RefundSchemeV3
	case eosEVMVersion == 2:
		return RefundSchemeClamp
	default:
		return RefundSchemeQuotient
	}
}

// ResultCode is an ExecutionResult's status: kOk or one of the post-block
// validation mismatches, plus whatever validation codes validate_transaction
// and GasRefundV3Func forward.
type ResultCode int

const (
	ResultOk ResultCode = iota
	ResultWrongBlockGas
	ResultWrongReceiptsRoot
	ResultWrongLogsBloom
	ResultRefundError
)

// ExecutionResult is what execute_transaction and the block-level methods
// return: the logical outcome, kept distinct from the EVM's own CallResult.
type ExecutionResult struct {
	Code ResultCode
}

func (r ExecutionResult) Ok() bool { return r.Code == ResultOk }

// GasRefundV3Func computes the v3 fee/refund split. Its internals are an
// EOS-EVM-specific, externally-defined routine (eosevm::gas_refund_v3) and
// are not reproduced here; callers supply an implementation.
type GasRefundV3Func func(
	eosEVMVersion int,
	vmRes types.CallResult,
	txn *types.Transaction,
	scaledGasParams GasParams,
	price *uint256.Int,
	gasPrices GasPrices,
	inclusionPrice *uint256.Int,
) (result ExecutionResult, finalFee *uint256.Int, gasUsed uint64, gasLeft uint64, err error)

// refundGas implements the pre-v3 (version < 2) and version == 2 refund
// schemes: it computes the post-refund gas_left, credits
// gas_left * effective_gas_price back to the sender, and returns gas_left.
func refundGas(
	state IntraBlockState,
	from common.Address,
	scheme RefundScheme,
	rev Revision,
	gasLimit, gasLeft, gasRefund uint64,
	effectiveGasPrice *uint256.Int,
) (uint64, error) {
	switch scheme {
	case RefundSchemeQuotient:
		quotient := uint64(maxRefundQuotientFrontier)
		if rev >= RevLondon {
			quotient = maxRefundQuotientLondon
		}
		maxRefund := (gasLimit - gasLeft) / quotient
		refund := gasRefund
		if maxRefund < refund {
			refund = maxRefund
		}
		sum, overflowed := emath.SafeAdd(gasLeft, refund)
		if overflowed {
			return 0, ErrGasOverflow
		}
		gasLeft = sum
	case RefundSchemeClamp:
		sum, overflowed := emath.SafeAdd(gasLeft, gasRefund)
		if overflowed {
			return 0, ErrGasOverflow
		}
		gasLeft = sum
		if floor := gasLimit - kGTransaction; gasLeft > floor {
			gasLeft = floor
		}
	}

	amount := new(uint256.Int).Mul(uint256.NewInt(gasLeft), effectiveGasPrice)
	state.AddToBalance(from, amount)
	return gasLeft, nil
}
