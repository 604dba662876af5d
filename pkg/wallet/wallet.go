package wallet

import (
	"crypto/ecdsa"
	"strings"

	"github.com/betbot/citrex/citrex/signing"
	"github.com/betbot/citrex/pkg/config"
	"github.com/betbot/citrex/pkg/secretstore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	"github.com/pkg/errors"
)

// Source 私钥来源
type Source string

const (
	SourceNone        Source = "none"
	SourcePrivateKey  Source = "private_key"
	SourceMnemonic    Source = "mnemonic"
	SourceSecretStore Source = "secret_store"
)

// DeriveFromMnemonic 按 BIP-44 路径从助记词派生私钥
func DeriveFromMnemonic(mnemonic, derivationPath string) (*ecdsa.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" {
		return nil, errors.New("mnemonic is empty")
	}
	if derivationPath == "" {
		derivationPath = config.DefaultDerivationPath
	}
	w, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mnemonic")
	}
	path, err := hdwallet.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, errors.Wrap(err, "invalid derivation_path")
	}
	acct, err := w.Derive(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "derive failed")
	}
	key, err := w.PrivateKey(acct)
	if err != nil {
		return nil, errors.Wrap(err, "private key failed")
	}
	return key, nil
}

// Load 按优先级加载私钥：私钥 > 助记词 > 加密存储。都没有配置时返回 nil（只读模式）
func Load(w config.WalletConfig, store config.SecretStoreConfig) (*ecdsa.PrivateKey, Source, error) {
	switch {
	case w.PrivateKey != "":
		key, err := signing.PrivateKeyFromHex(w.PrivateKey)
		return key, SourcePrivateKey, err
	case w.Mnemonic != "":
		key, err := DeriveFromMnemonic(w.Mnemonic, w.DerivationPath)
		return key, SourceMnemonic, err
	case store.Path != "":
		key, err := loadFromStore(store)
		if key == nil && err == nil {
			return nil, SourceNone, nil
		}
		return key, SourceSecretStore, err
	}
	return nil, SourceNone, nil
}

func openStore(cfg config.SecretStoreConfig, readOnly bool) (*secretstore.Store, error) {
	encKey, err := secretstore.ParseKey(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.Path,
		EncryptionKey: encKey,
		ReadOnly:      readOnly,
	})
}

func loadFromStore(cfg config.SecretStoreConfig) (*ecdsa.PrivateKey, error) {
	s, err := openStore(cfg, true)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if hexKey, ok, err := s.GetString(secretstore.KeyPrivateKey); err != nil {
		return nil, err
	} else if ok && hexKey != "" {
		return signing.PrivateKeyFromHex(hexKey)
	}

	mnemonic, ok, err := s.GetString(secretstore.KeyMnemonic)
	if err != nil || !ok || mnemonic == "" {
		return nil, err
	}
	path, _, err := s.GetString(secretstore.KeyDerivationPath)
	if err != nil {
		return nil, err
	}
	return DeriveFromMnemonic(mnemonic, path)
}

// Import 校验凭证后写入加密存储，返回对应的钱包地址。只写入一种凭证
func Import(cfg config.SecretStoreConfig, privateKeyHex, mnemonic, derivationPath string) (common.Address, error) {
	var (
		key *ecdsa.PrivateKey
		err error
	)
	switch {
	case privateKeyHex != "" && mnemonic != "":
		return common.Address{}, errors.New("import either a private key or a mnemonic, not both")
	case privateKeyHex != "":
		key, err = signing.PrivateKeyFromHex(privateKeyHex)
	case mnemonic != "":
		key, err = DeriveFromMnemonic(mnemonic, derivationPath)
	default:
		return common.Address{}, errors.New("nothing to import")
	}
	if err != nil {
		return common.Address{}, err
	}

	s, err := openStore(cfg, false)
	if err != nil {
		return common.Address{}, err
	}
	defer s.Close()

	// 只保留本次导入的凭证，残留的助记词或派生路径会让 Load 得到另一个地址
	if privateKeyHex != "" {
		if err := s.SetString(secretstore.KeyPrivateKey, strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")); err != nil {
			return common.Address{}, err
		}
		for _, k := range []string{secretstore.KeyMnemonic, secretstore.KeyDerivationPath} {
			if err := s.Delete(k); err != nil {
				return common.Address{}, err
			}
		}
	} else {
		if derivationPath == "" {
			derivationPath = config.DefaultDerivationPath
		}
		if err := s.Delete(secretstore.KeyPrivateKey); err != nil {
			return common.Address{}, err
		}
		if err := s.SetString(secretstore.KeyMnemonic, strings.Join(strings.Fields(mnemonic), " ")); err != nil {
			return common.Address{}, err
		}
		if err := s.SetString(secretstore.KeyDerivationPath, derivationPath); err != nil {
			return common.Address{}, err
		}
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
