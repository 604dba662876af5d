package signing

import (
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/betbot/citrex/citrex/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var fixedNow = time.UnixMilli(1_700_000_000_000)

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)
	return key
}

func testDomain(t *testing.T) Domain {
	t.Helper()
	cfg, err := types.LookupNetwork(types.ChainSei, types.EnvTestnet)
	require.NoError(t, err)
	d, err := NewDomain(cfg)
	require.NoError(t, err)
	return d
}

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	key := testKey(t)
	acct, err := types.NewAccountContext(crypto.PubkeyToAddress(key.PublicKey), 2)
	require.NoError(t, err)
	return NewBuilder(testDomain(t), acct).WithClock(func() time.Time { return fixedNow })
}
