package inmem

import (
	"context"
	"fmt"

	"github.com/lukasz-zimnoch/dexly/portfolio"
)

func (ls *LedgerStore) OpenAccount(
	ctx context.Context,
	account *portfolio.Account,
) error {
	key := account.ID.String()

	ls.accountsMutex.Lock()
	defer ls.accountsMutex.Unlock()

	if _, exists := ls.accounts[key]; exists {
		return fmt.Errorf("account [%v] already exists", key)
	}

	ls.accounts[key] = &accountState{
		account:  *account,
		holdings: make(map[string]portfolio.Holding),
		history:  make([]portfolio.HistoryEntry, 0),
	}

	return nil
}
