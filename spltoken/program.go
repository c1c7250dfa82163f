package spltoken

import (
	"fmt"
	"sync"

	"github.com/egaotan/solana-tokenswap/codec"
	"github.com/gagliardetto/solana-go"
)

// ParseUser decodes a token account owned by the token program.
func ParseUser(key, owner solana.PublicKey, data []byte) (UserLayout, error) {
	user := UserLayout{}
	if !owner.Equals(solana.TokenProgramID) {
		return user, fmt.Errorf("account(%s) is not spl token program account, expected: %s, actual: %s", key, solana.TokenProgramID, owner)
	}
	if len(data) != TokenLayoutSize {
		return user, fmt.Errorf("spl token account(%s) data size is not valid, expected: %d, actual: %d", key, TokenLayoutSize, len(data))
	}
	if err := codec.Unmarshal(data, &user); err != nil {
		return user, fmt.Errorf("spl token account(%s) data is not valid, err: %w", key, err)
	}
	if user.State == AccountUninitialized {
		return user, fmt.Errorf("spl token account(%s) is not initialized", key)
	}
	return user, nil
}

// ParseToken decodes a mint owned by the token program.
func ParseToken(key, owner solana.PublicKey, data []byte) (TokenLayout, error) {
	token := TokenLayout{}
	if !owner.Equals(solana.TokenProgramID) {
		return token, fmt.Errorf("account(%s) is not spl token program account", key)
	}
	if len(data) != MintLayoutSize {
		return token, fmt.Errorf("account(%s) data size is not valid", key)
	}
	if err := codec.Unmarshal(data, &token); err != nil {
		return token, fmt.Errorf("account(%s) data is not valid, err: %w", key, err)
	}
	if !token.IsInitialized {
		return token, fmt.Errorf("mint(%s) is not initialized", key)
	}
	return token, nil
}

// Cache keeps the latest decoded account per key. Older heights never
// replace newer ones.
type Cache struct {
	lock   sync.RWMutex
	tokens map[solana.PublicKey]*KeyedToken
	users  map[solana.PublicKey]*KeyedUser
}

func NewCache() *Cache {
	return &Cache{
		tokens: make(map[solana.PublicKey]*KeyedToken),
		users:  make(map[solana.PublicKey]*KeyedUser),
	}
}

func (c *Cache) UpsertUser(pubkey solana.PublicKey, height uint64, account UserLayout) *KeyedUser {
	c.lock.Lock()
	defer c.lock.Unlock()
	keyedUser, ok := c.users[pubkey]
	if !ok {
		keyedUser = &KeyedUser{
			Key:        pubkey,
			Height:     height,
			UserLayout: account,
		}
		c.users[pubkey] = keyedUser
	} else if height >= keyedUser.Height {
		keyedUser.UserLayout = account
		keyedUser.Height = height
	}
	copied := *keyedUser
	return &copied
}

func (c *Cache) UpsertToken(pubkey solana.PublicKey, height uint64, mint TokenLayout) *KeyedToken {
	c.lock.Lock()
	defer c.lock.Unlock()
	keyedToken, ok := c.tokens[pubkey]
	if !ok {
		keyedToken = &KeyedToken{
			Key:         pubkey,
			Height:      height,
			TokenLayout: mint,
		}
		c.tokens[pubkey] = keyedToken
	} else if height >= keyedToken.Height {
		keyedToken.TokenLayout = mint
		keyedToken.Height = height
	}
	copied := *keyedToken
	return &copied
}

func (c *Cache) GetUser(key solana.PublicKey) *KeyedUser {
	c.lock.RLock()
	defer c.lock.RUnlock()
	user, ok := c.users[key]
	if !ok {
		return nil
	}
	copied := *user
	return &copied
}

func (c *Cache) GetToken(key solana.PublicKey) *KeyedToken {
	c.lock.RLock()
	defer c.lock.RUnlock()
	token, ok := c.tokens[key]
	if !ok {
		return nil
	}
	copied := *token
	return &copied
}
