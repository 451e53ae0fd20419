package zcashtest

const GetInfoResult = `{
  "version": 5040050,
  "protocolversion": 170100,
  "walletversion": 60000,
  "balance": 1.25000000,
  "blocks": 12345,
  "timeoffset": 0,
  "connections": 8,
  "proxy": "",
  "difficulty": 1.0,
  "testnet": true,
  "keypoololdest": 1675212345,
  "keypoolsize": 101,
  "paytxfee": 0.00000000,
  "relayfee": 0.00000100,
  "errors": "",
  "errorstimestamp": 1675212399,
  "build": "v5.4.0",
  "subversion": "/MagicBean:5.4.0/"
}`

const GetBlockChainInfoResult = `{
  "chain": "test",
  "blocks": 12345,
  "headers": 12400,
  "bestblockhash": "0017a2fc3ae7d8de6c42d3cd4bc3f3e9d9a8a9c0a14b9bb74a6e2f5c86d7d4a1",
  "difficulty": 1.0,
  "verificationprogress": 0.9955,
  "chainwork": "0000000000000000000000000000000000000000000000000000000001d4f2b3",
  "pruned": false,
  "size_on_disk": 1048576,
  "commitments": 42,
  "valuePools": [
    {"id": "transparent", "monitored": true, "chainValue": 100.5, "chainValueZat": 10050000000},
    {"id": "sapling", "monitored": true, "chainValue": 20.25, "chainValueZat": 2025000000, "valueDelta": -0.5, "valueDeltaZat": -50000000},
    {"id": "orchard", "monitored": false}
  ],
  "softforks": [
    {
      "id": "bip34",
      "version": 2,
      "enforce": {"status": true, "found": 4000, "required": 750, "window": 4000},
      "reject": {"status": true, "found": 4000, "required": 950, "window": 4000}
    }
  ],
  "upgrades": {
    "5ba81b19": {"name": "Overwinter", "activationheight": 207500, "status": "active", "info": "See https://z.cash/upgrade/overwinter/ for details."},
    "c2d6d0b4": {"name": "NU5", "activationheight": 1842420, "status": "pending", "info": "See https://z.cash/upgrade/nu5/ for details."}
  },
  "consensus": {"chaintip": "5ba81b19", "nextblock": "5ba81b19"},
  "estimatedheight": 12400
}`

const GetBestBlockHashResult = `"0017a2fc3ae7d8de6c42d3cd4bc3f3e9d9a8a9c0a14b9bb74a6e2f5c86d7d4a1"`

const GetBlockHeaderResult = `{
  "hash": "0017a2fc3ae7d8de6c42d3cd4bc3f3e9d9a8a9c0a14b9bb74a6e2f5c86d7d4a1",
  "confirmations": 1,
  "height": 12345,
  "version": 4,
  "merkleroot": "6c1b2ad8a2ab1fa8c06e8b3c8a6f1f96c3f4b2a5d73c6b08c7fe8c8e1a3e9d11",
  "finalsaplingroot": "3e49b5f954aa9d3545bc6c37744661eea48d7c34e3000d82b7f0010c30f4c2fb",
  "time": 1675212400,
  "nonce": "0000a1b2c3d4e5f60000000000000000000000000000000000000000000000ab",
  "solution": "00",
  "bits": "2007ffff",
  "difficulty": 1.0,
  "chainwork": "0000000000000000000000000000000000000000000000000000000001d4f2b3",
  "previousblockhash": "00086d9e5d27e7ec2a6e8f1a5e77c7d1a3cb0de6b7a33e5f5b5a4b8f6e4d3c2b"
}`

const ZGetTotalBalanceResult = `{"transparent": "1.25", "private": "0.75000001", "total": "2.00000001"}`

// Fixtures maps method names to canned results, used by NewDaemon.
var Fixtures = map[string]string{
	"getinfo":            GetInfoResult,
	"getblockchaininfo":  GetBlockChainInfoResult,
	"getblockcount":      `12345`,
	"getbestblockhash":   GetBestBlockHashResult,
	"getblockhash":       GetBestBlockHashResult,
	"getblockheader":     GetBlockHeaderResult,
	"getdifficulty":      `1.0`,
	"getconnectioncount": `8`,
	"z_gettotalbalance":  ZGetTotalBalanceResult,
}
