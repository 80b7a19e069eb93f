package pricing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/syndicate-prices/internal/wiki"
)

// --- Wiki Mock ---

type mockPages struct {
	mock.Mock
}

func (m *mockPages) Page(ctx context.Context, s wiki.Syndicate) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(page string) ([]string, error) {
	args := m.Called(page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Market Mock ---

type mockMarket struct {
	mock.Mock
}

func (m *mockMarket) LowestPrices(ctx context.Context, name string) []int {
	args := m.Called(ctx, name)
	return args.Get(0).([]int)
}

// --- Throttle Mock ---

type mockThrottle struct {
	mock.Mock
}

func (m *mockThrottle) Wait(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
