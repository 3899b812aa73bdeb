package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"sync"

	"k8s.io/utils/clock"

	"github.com/luca-patrignani/lobby3pc/domain/lobby"
)

// ErrEmpty is returned when reading from a History without blocks.
var ErrEmpty = errors.New("history is empty")

const genesisPrevHash = "0"

type History struct {
	mu     sync.RWMutex
	clock  clock.Clock
	blocks []Block
}

// NewHistory creates a History whose genesis block holds initial.
func NewHistory(initial lobby.State) *History {
	return NewHistoryWithClock(clock.RealClock{}, initial)
}

func NewHistoryWithClock(c clock.Clock, initial lobby.State) *History {
	h := &History{clock: c}
	genesis := Block{
		Index:     0,
		Timestamp: c.Now().UnixNano(),
		PrevHash:  genesisPrevHash,
		State:     initial.Value,
	}
	genesis.Hash = calculateHash(genesis)
	h.blocks = append(h.blocks, genesis)
	return h
}

// Append chains the state of p after the latest block and returns the new
// block.
func (h *History) Append(p lobby.Proposal) (Block, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.blocks) == 0 {
		return Block{}, ErrEmpty
	}
	latest := h.blocks[len(h.blocks)-1]
	b := Block{
		Index:      latest.Index + 1,
		Timestamp:  h.clock.Now().UnixNano(),
		PrevHash:   latest.Hash,
		ProposalID: p.ID.String(),
		Proposer:   p.Sender.Address(),
		State:      p.State.Value,
	}
	b.Hash = calculateHash(b)
	if err := validateBlock(b, latest); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}
	h.blocks = append(h.blocks, b)
	return b, nil
}

func (h *History) Latest() (Block, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.blocks) == 0 {
		return Block{}, ErrEmpty
	}
	return h.blocks[len(h.blocks)-1], nil
}

// ByIndex returns the block at index, the genesis block being at index 0.
func (h *History) ByIndex(index int) (Block, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if index < 0 || index >= len(h.blocks) {
		return Block{}, fmt.Errorf("index %d out of range [0, %d)", index, len(h.blocks))
	}
	return h.blocks[index], nil
}

func (h *History) Blocks() []Block {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.blocks)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.blocks)
}

// States returns the applied state values, oldest first, genesis excluded.
func (h *History) States() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	states := make([]string, 0, len(h.blocks))
	for _, b := range h.blocks[min(1, len(h.blocks)):] {
		states = append(states, b.State)
	}
	return states
}

// Verify checks the genesis block and every link of the chain.
func (h *History) Verify() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.blocks) == 0 {
		return ErrEmpty
	}
	genesis := h.blocks[0]
	if genesis.Index != 0 || genesis.PrevHash != genesisPrevHash || genesis.Hash != calculateHash(genesis) {
		return fmt.Errorf("invalid genesis block")
	}
	for i := 1; i < len(h.blocks); i++ {
		if err := validateBlock(h.blocks[i], h.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}

func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	if expected := calculateHash(current); current.Hash != expected {
		return fmt.Errorf("invalid hash: expected %s, got %s", expected, current.Hash)
	}
	return nil
}

func calculateHash(b Block) string {
	data := fmt.Sprintf("%d|%d|%s|%s|%s|%s",
		b.Index,
		b.Timestamp,
		b.PrevHash,
		b.ProposalID,
		b.Proposer,
		b.State,
	)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
