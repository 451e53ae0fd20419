package zcash

import (
	"github.com/goccy/go-json"
)

// Response schemas. Every field without omitempty or a pointer type must be
// present in the daemon's reply, and unknown fields are rejected.

type GetInfoResponse struct {
	Version         uint64  `json:"version"`
	ProtocolVersion uint64  `json:"protocolversion"`
	WalletVersion   uint64  `json:"walletversion"`
	Balance         Amount  `json:"balance"`
	Blocks          uint64  `json:"blocks"`
	TimeOffset      int64   `json:"timeoffset"`
	Connections     uint64  `json:"connections"`
	Proxy           string  `json:"proxy"`
	Difficulty      float64 `json:"difficulty"`
	Testnet         bool    `json:"testnet"`
	KeypoolOldest   uint64  `json:"keypoololdest"`
	KeypoolSize     uint64  `json:"keypoolsize"`
	PayTxFee        Amount  `json:"paytxfee"`
	RelayFee        Amount  `json:"relayfee"`
	Errors          string  `json:"errors"`
	ErrorsTimestamp *int64  `json:"errorstimestamp,omitempty"`
	UnlockedUntil   *int64  `json:"unlocked_until,omitempty"`
	Build           string  `json:"build,omitempty"`
	Subversion      string  `json:"subversion,omitempty"`
}

type GetBlockChainInfoResponse struct {
	Chain                string                        `json:"chain"`
	Blocks               uint64                        `json:"blocks"`
	Headers              uint64                        `json:"headers"`
	BestBlockHash        string                        `json:"bestblockhash"`
	Difficulty           float64                       `json:"difficulty"`
	VerificationProgress float64                       `json:"verificationprogress"`
	ChainWork            string                        `json:"chainwork"`
	Pruned               bool                          `json:"pruned"`
	SizeOnDisk           uint64                        `json:"size_on_disk"`
	Commitments          uint64                        `json:"commitments"`
	ValuePools           []ValuePool                   `json:"valuePools"`
	Softforks            []Softfork                    `json:"softforks"`
	Upgrades             map[string]NetworkUpgradeDesc `json:"upgrades"`
	Consensus            Consensus                     `json:"consensus"`
	PruneHeight          *uint64                       `json:"pruneheight,omitempty"`
	FullyNotified        *bool                         `json:"fullyNotified,omitempty"`
	EstimatedHeight      *uint64                       `json:"estimatedheight,omitempty"`
}

type ValuePool struct {
	ID            string  `json:"id"`
	Monitored     bool    `json:"monitored"`
	ChainValue    *Amount `json:"chainValue,omitempty"`
	ChainValueZat *uint64 `json:"chainValueZat,omitempty"`
	ValueDelta    *Amount `json:"valueDelta,omitempty"`
	ValueDeltaZat *int64  `json:"valueDeltaZat,omitempty"`
}

type Softfork struct {
	ID      string               `json:"id"`
	Version int64                `json:"version"`
	Enforce SoftforkMajorityDesc `json:"enforce"`
	Reject  SoftforkMajorityDesc `json:"reject"`
}

// SoftforkMajorityDesc reports a version-majority vote. Window is passed
// through undecoded: its shape is not pinned down yet.
type SoftforkMajorityDesc struct {
	Status   bool            `json:"status"`
	Found    int64           `json:"found"`
	Required int64           `json:"required"`
	Window   json.RawMessage `json:"window"`
}

type UpgradeStatus string

const (
	UpgradeDisabled UpgradeStatus = "disabled"
	UpgradePending  UpgradeStatus = "pending"
	UpgradeActive   UpgradeStatus = "active"
)

type NetworkUpgradeDesc struct {
	Name             string        `json:"name"`
	ActivationHeight uint64        `json:"activationheight"`
	Status           UpgradeStatus `json:"status"`
	Info             string        `json:"info"`
}

// Consensus holds the branch ids, hex encoded, of the chain tip and of the
// block after it.
type Consensus struct {
	ChainTip  string `json:"chaintip"`
	NextBlock string `json:"nextblock"`
}

type BlockHeader struct {
	Hash              string  `json:"hash"`
	Confirmations     int64   `json:"confirmations"`
	Height            uint64  `json:"height"`
	Version           int64   `json:"version"`
	MerkleRoot        string  `json:"merkleroot"`
	FinalSaplingRoot  string  `json:"finalsaplingroot,omitempty"`
	BlockCommitments  string  `json:"blockcommitments,omitempty"`
	Time              int64   `json:"time"`
	Nonce             string  `json:"nonce"`
	Solution          string  `json:"solution"`
	Bits              string  `json:"bits"`
	Difficulty        float64 `json:"difficulty"`
	ChainWork         string  `json:"chainwork"`
	PreviousBlockHash string  `json:"previousblockhash,omitempty"`
	NextBlockHash     string  `json:"nextblockhash,omitempty"`
}

// TotalBalance is the wallet's balance split by pool, as reported by
// z_gettotalbalance.
type TotalBalance struct {
	Transparent Amount `json:"transparent"`
	Private     Amount `json:"private"`
	Total       Amount `json:"total"`
}
