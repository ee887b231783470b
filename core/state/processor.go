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

// Package state drives per-transaction execution, gas/refund accounting and
// post-block validation, ported from silkworm's ExecutionProcessor
// (silkworm/core/execution/processor.cpp).
package state

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/erigontech/eosevm-interhashes/core/types"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/common"
	emath "github.com/erigontech/eosevm-interhashes/erigon-lib/common/math"
	"github.com/erigontech/eosevm-interhashes/erigon-lib/log"
)

// ErrGasOverflow is the assertion failure for gas arithmetic that does not
// fit: intrinsic gas above the transaction's gas limit, or a uint64 overflow
// when adding a refund to gas_left or gas_used to the block's cumulative gas
// (guaranteed not to happen by the validate_transaction precondition;
// surfaced as an error here rather than a panic, since Go has no assert).
var ErrGasOverflow = errors.New("state: gas overflow")

// ExecutionProcessor drives one block's worth of transaction execution. It
// lives for exactly one block: construct, call ExecuteAndWriteBlock (or the
// lower-level methods) once, discard.
type ExecutionProcessor struct {
	cumulativeGasUsed uint64

	state     IntraBlockState
	ruleSet   RuleSet
	evm       EVM
	block     *types.Block
	gasPrices GasPrices

	IntrinsicGas        IntrinsicGasFunc
	GasRefundV3         GasRefundV3Func
	ValidateTransaction ValidateTransactionFunc

	// LogsBloom computes a receipt's bloom from its logs. Bloom
	// computation is an out-of-scope collaborator (Keccak-based bit
	// setting); the processor only aggregates already-computed blooms at
	// block level.
	LogsBloom func(logs []types.Log) common.Bloom
}

// NewExecutionProcessor binds block to evm, reads the beneficiary from
// ruleSet, and stores a reference to state and a copy of gasPrices.
func NewExecutionProcessor(
	block *types.Block,
	ruleSet RuleSet,
	st IntraBlockState,
	evm EVM,
	gasPrices GasPrices,
	intrinsicGas IntrinsicGasFunc,
	gasRefundV3 GasRefundV3Func,
	validateTransaction ValidateTransactionFunc,
	logsBloom func(logs []types.Log) common.Bloom,
) *ExecutionProcessor {
	evm.SetBeneficiary(ruleSet.GetBeneficiary(block.Header))
	return &ExecutionProcessor{
		state:               st,
		ruleSet:             ruleSet,
		evm:                 evm,
		block:               block,
		gasPrices:           gasPrices,
		IntrinsicGas:        intrinsicGas,
		GasRefundV3:         gasRefundV3,
		ValidateTransaction: validateTransaction,
		LogsBloom:           logsBloom,
	}
}

// AvailableGas is header.gas_limit - cumulative_gas_used.
func (p *ExecutionProcessor) AvailableGas() uint64 {
	return p.block.Header.AvailableGas(p.cumulativeGasUsed)
}

// EVM exposes the bound interpreter. The EVM interface has no method for
// installing a MessageFilter.
func (p *ExecutionProcessor) EVM() EVM { return p.evm }

// ExecuteTransaction executes a single transaction against the processor's
// state. Precondition: txn has already passed validate_transaction. Returns
// the logical result and the EVM's low-level CallResult (a two-return-value
// replacement for the C++ out-parameter overload).
func (p *ExecutionProcessor) ExecuteTransaction(txn *types.Transaction, receipt *types.Receipt, gasParams GasParams) (ExecutionResult, types.CallResult, error) {
	var res ExecutionResult

	// Reuse receipt.Logs' capacity: swap it in for the state's log buffer.
	logs := p.state.Logs()
	p.state.SetLogs(receipt.Logs)
	receipt.Logs = logs

	p.state.ClearJournalAndSubstate()

	p.state.AccessAccount(txn.From)
	if txn.To != nil {
		p.state.AccessAccount(*txn.To)
		// The EVM itself bumps the nonce for contract creation.
		p.state.SetNonce(txn.From, txn.Nonce+1)
	}

	for _, ae := range txn.AccessList {
		p.state.AccessAccount(ae.Address)
		for _, key := range ae.StorageKeys {
			p.state.AccessStorage(ae.Address, key)
		}
	}

	rev := p.evm.Revision()
	if rev >= RevShanghai {
		// EIP-3651: warm COINBASE.
		p.state.AccessAccount(p.evm.Beneficiary())
	}

	baseFeePerGas := p.block.Header.BaseFeePerGas
	if baseFeePerGas == nil {
		baseFeePerGas = new(uint256.Int)
	}
	effectiveGasPrice := txn.EffectiveGasPrice(baseFeePerGas)
	gasCost := new(uint256.Int).Mul(uint256.NewInt(txn.GasLimit), effectiveGasPrice)
	p.state.SubtractFromBalance(txn.From, gasCost)

	dataGasPrice := p.block.Header.DataGasPrice
	if dataGasPrice == nil {
		dataGasPrice = new(uint256.Int)
	}
	dataGasCost := new(uint256.Int).Mul(uint256.NewInt(txn.TotalDataGas()), dataGasPrice)
	p.state.SubtractFromBalance(txn.From, dataGasCost)

	eosEVMVersion := p.evm.EOSEVMVersion()
	var inclusionPrice uint256.Int
	scaledGasParams := gasParams
	if eosEVMVersion >= 3 {
		maxFeeHeadroom := new(uint256.Int).Sub(txn.MaxFeePerGas, baseFeePerGas)
		inclusionPrice = *txn.MaxPriorityFeePerGas
		if maxFeeHeadroom.Cmp(&inclusionPrice) < 0 {
			inclusionPrice = *maxFeeHeadroom
		}
		factorDen := new(uint256.Int).Add(baseFeePerGas, &inclusionPrice)
		if factorDen.IsZero() {
			return res, types.CallResult{}, fmt.Errorf("state: scaling denominator is zero")
		}
		scaledGasParams = gasParams.ApplyDiscountFactor(p.gasPrices.StoragePrice, factorDen)
	}

	g0, err := p.IntrinsicGas(txn, rev, eosEVMVersion, scaledGasParams)
	if err != nil {
		return res, types.CallResult{}, err
	}
	if g0 > txn.GasLimit {
		return res, types.CallResult{}, ErrGasOverflow
	}

	vmRes, err := p.evm.Execute(txn, txn.GasLimit-g0, scaledGasParams)
	if err != nil {
		return res, types.CallResult{}, err
	}

	var price *uint256.Int
	if p.ruleSet.Type() == RuleSetTrust {
		price = effectiveGasPrice
	} else {
		price = txn.PriorityFeePerGas(baseFeePerGas)
	}

	var gasUsed uint64
	scheme := RefundSchemeFor(eosEVMVersion)
	if scheme != RefundSchemeV3 {
		gasLeft, err := refundGas(p.state, txn.From, scheme, rev, txn.GasLimit, vmRes.GasLeft, vmRes.GasRefund, effectiveGasPrice)
		if err != nil {
			return res, vmRes, err
		}
		gasUsed = txn.GasLimit - gasLeft
		fee := new(uint256.Int).Mul(price, uint256.NewInt(gasUsed))
		p.state.AddToBalance(p.evm.Beneficiary(), fee)
	} else {
		var finalFee *uint256.Int
		var gasLeft uint64
		res, finalFee, gasUsed, gasLeft, err = p.GasRefundV3(eosEVMVersion, vmRes, txn, scaledGasParams, price, p.gasPrices, &inclusionPrice)
		if err != nil {
			return res, vmRes, err
		}
		p.state.AddToBalance(p.evm.Beneficiary(), finalFee)
		sentBack := new(uint256.Int).Mul(price, uint256.NewInt(gasLeft))
		p.state.AddToBalance(txn.From, sentBack)
	}

	p.state.DestructSuicides()
	if rev >= RevSpuriousDragon {
		p.state.DestructTouchedDead()
	}
	p.state.FinalizeTransaction()

	newCumulative, overflowed := emath.SafeAdd(p.cumulativeGasUsed, gasUsed)
	if overflowed {
		return res, vmRes, ErrGasOverflow
	}
	p.cumulativeGasUsed = newCumulative

	receipt.Type = txn.Type
	receipt.Success = vmRes.Success
	receipt.CumulativeGasUsed = p.cumulativeGasUsed
	receipt.Bloom = p.LogsBloom(p.state.Logs())
	logs = p.state.Logs()
	p.state.SetLogs(receipt.Logs)
	receipt.Logs = logs

	return res, vmRes, nil
}

// ExecuteBlockNoPostValidation runs every transaction in the block but
// performs none of the header-comparison checks execute_and_write_block
// does afterwards.
func (p *ExecutionProcessor) ExecuteBlockNoPostValidation(receipts []types.Receipt, gasParams GasParams) (ExecutionResult, error) {
	header := p.block.Header

	if p.ruleSet.Type() != RuleSetTrust && header.Number == p.ruleSet.DAOBlock() {
		p.ruleSet.TransferDAOBalances(p.state)
	}

	p.cumulativeGasUsed = 0

	for i := range p.block.Transactions {
		txn := &p.block.Transactions[i]

		if p.ruleSet.IsReservedAddress(txn.From) {
			value := txn.Value
			if value == nil {
				value = new(uint256.Int)
			}
			preSeed := new(uint256.Int).Mul(uint256.NewInt(txn.GasLimit), txn.MaxFeePerGas)
			preSeed.Add(preSeed, value)
			p.ruleSet.PreSeed(p.state, txn.From, preSeed, txn.MaxFeePerGas, txn.GasLimit, txn.Nonce)
		}

		if err := p.ValidateTransaction(txn, p.state, p.AvailableGas()); err != nil {
			log.Warn("transaction failed validation", "nonce", txn.Nonce, "err", err)
			return ExecutionResult{Code: ResultRefundError}, err
		}

		if _, _, err := p.ExecuteTransaction(txn, &receipts[i], gasParams); err != nil {
			return ExecutionResult{Code: ResultRefundError}, err
		}
		p.state.ResetReservedObjects()
	}

	if err := p.ruleSet.Finalize(p.state, p.block); err != nil {
		return ExecutionResult{Code: ResultRefundError}, err
	}

	if p.evm.Revision() >= RevSpuriousDragon {
		p.state.DestructTouchedDead()
	}

	return ExecutionResult{Code: ResultOk}, nil
}

// ExecuteAndWriteBlock runs the block, validates cumulative gas,
// receipts-root (Byzantium+) and logs-bloom against the header (skipped
// under the "trust" rule set), and commits state to the DB.
func (p *ExecutionProcessor) ExecuteAndWriteBlock(receipts []types.Receipt, gasParams GasParams, receiptsRoot func([]types.Receipt) (common.Hash, error)) (ExecutionResult, error) {
	if res, err := p.ExecuteBlockNoPostValidation(receipts, gasParams); !res.Ok() || err != nil {
		return res, err
	}

	header := p.block.Header
	trusted := p.ruleSet.Type() == RuleSetTrust

	if !trusted && p.cumulativeGasUsed != header.GasUsed {
		return ExecutionResult{Code: ResultWrongBlockGas}, nil
	}

	if !trusted && p.evm.Revision() >= RevByzantium {
		root, err := receiptsRoot(receipts)
		if err != nil {
			return ExecutionResult{}, err
		}
		if root != header.ReceiptsRoot {
			return ExecutionResult{Code: ResultWrongReceiptsRoot}, nil
		}
	}

	var bloom common.Bloom
	for _, r := range receipts {
		bloom.Join(r.Bloom)
	}
	if !trusted && bloom != header.LogsBloom {
		return ExecutionResult{Code: ResultWrongLogsBloom}, nil
	}

	if err := p.state.WriteToDB(header.Number); err != nil {
		return ExecutionResult{}, err
	}

	return ExecutionResult{Code: ResultOk}, nil
}
