package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/shopspring/decimal"
)

// LedgerStore keeps the ledger in memory. Each account has its own mutex
// serializing its scopes; a scope works on a staged copy of the account
// state which replaces the stored one only when the scope succeeds.
type LedgerStore struct {
	accountsMutex sync.Mutex
	accounts      map[string]*accountState
	locks         map[string]*sync.Mutex
	sequence      int64
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		accounts: make(map[string]*accountState),
		locks:    make(map[string]*sync.Mutex),
	}
}

type accountState struct {
	account  portfolio.Account
	holdings map[string]portfolio.Holding
	history  []portfolio.HistoryEntry
}

func (as *accountState) clone() *accountState {
	holdings := make(map[string]portfolio.Holding, len(as.holdings))
	for symbol, holding := range as.holdings {
		holdings[symbol] = holding
	}

	history := make([]portfolio.HistoryEntry, len(as.history))
	copy(history, as.history)

	return &accountState{
		account:  as.account,
		holdings: holdings,
		history:  history,
	}
}

func (ls *LedgerStore) Transact(
	ctx context.Context,
	accountID portfolio.ID,
	fn func(tx portfolio.LedgerTx) error,
) error {
	return ls.run(ctx, accountID, false, fn)
}

func (ls *LedgerStore) View(
	ctx context.Context,
	accountID portfolio.ID,
	fn func(tx portfolio.LedgerTx) error,
) error {
	return ls.run(ctx, accountID, true, fn)
}

func (ls *LedgerStore) run(
	ctx context.Context,
	accountID portfolio.ID,
	readOnly bool,
	fn func(tx portfolio.LedgerTx) error,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf(
			"%w: could not begin transaction: [%v]",
			portfolio.ErrStoreUnavailable,
			err,
		)
	}

	key := accountID.String()

	lock := ls.accountLock(key)
	lock.Lock()
	defer lock.Unlock()

	ls.accountsMutex.Lock()
	state, exists := ls.accounts[key]
	ls.accountsMutex.Unlock()

	if !exists {
		return fmt.Errorf("%w: [%v]", portfolio.ErrAccountNotFound, key)
	}

	tx := &ledgerTx{
		store:    ls,
		state:    state.clone(),
		readOnly: readOnly,
	}

	if err := fn(tx); err != nil {
		return err
	}

	if readOnly {
		return nil
	}

	ls.accountsMutex.Lock()
	ls.accounts[key] = tx.state
	ls.accountsMutex.Unlock()

	return nil
}

func (ls *LedgerStore) accountLock(key string) *sync.Mutex {
	ls.accountsMutex.Lock()
	defer ls.accountsMutex.Unlock()

	if _, exists := ls.locks[key]; !exists {
		ls.locks[key] = &sync.Mutex{}
	}

	return ls.locks[key]
}

func (ls *LedgerStore) nextSequence() int64 {
	ls.accountsMutex.Lock()
	defer ls.accountsMutex.Unlock()

	ls.sequence++
	return ls.sequence
}

type ledgerTx struct {
	store    *LedgerStore
	state    *accountState
	readOnly bool
}

func (lt *ledgerTx) Account() (*portfolio.Account, error) {
	account := lt.state.account
	return &account, nil
}

func (lt *ledgerTx) UpdateCash(cash decimal.Decimal) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	if cash.IsNegative() {
		return fmt.Errorf(
			"%w: negative cash [%v] rejected",
			portfolio.ErrStoreUnavailable,
			cash.String(),
		)
	}

	lt.state.account.Cash = cash

	return nil
}

func (lt *ledgerTx) Holding(symbol string) (*portfolio.Holding, error) {
	holding, exists := lt.state.holdings[symbol]
	if !exists {
		return nil, nil
	}

	return &holding, nil
}

func (lt *ledgerTx) Holdings() ([]*portfolio.Holding, error) {
	holdings := make([]*portfolio.Holding, 0, len(lt.state.holdings))

	for _, holding := range lt.state.holdings {
		holding := holding
		holdings = append(holdings, &holding)
	}

	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Symbol < holdings[j].Symbol
	})

	return holdings, nil
}

func (lt *ledgerTx) SaveHolding(holding *portfolio.Holding) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	if holding.Quantity <= 0 {
		return fmt.Errorf(
			"%w: holding [%v] must have positive quantity",
			portfolio.ErrStoreUnavailable,
			holding.Symbol,
		)
	}

	lt.state.holdings[holding.Symbol] = *holding

	return nil
}

func (lt *ledgerTx) DeleteHolding(symbol string) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	delete(lt.state.holdings, symbol)

	return nil
}

func (lt *ledgerTx) AppendHistory(entry *portfolio.HistoryEntry) error {
	if err := lt.checkWritable(); err != nil {
		return err
	}

	entry.Sequence = lt.store.nextSequence()
	lt.state.history = append(lt.state.history, *entry)

	return nil
}

func (lt *ledgerTx) History() ([]*portfolio.HistoryEntry, error) {
	history := make([]*portfolio.HistoryEntry, len(lt.state.history))

	for index := range lt.state.history {
		entry := lt.state.history[index]
		history[index] = &entry
	}

	return history, nil
}

func (lt *ledgerTx) checkWritable() error {
	if lt.readOnly {
		return fmt.Errorf(
			"%w: write in read-only transaction",
			portfolio.ErrStoreUnavailable,
		)
	}

	return nil
}
