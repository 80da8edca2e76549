package apifootball

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/matchpulse/football-data-sync/internal/usecase"
)

// paginator walks a paginated endpoint strictly in order, one page per
// Next call. The first page fixes the expected total; a later page that
// reports a different total aborts before its records are handed out.
// There is no mid-sequence resume: a fresh paginator starts at page 1.
type paginator struct {
	client *Client
	path   string
	params map[string]string
	delay  time.Duration

	nextPage int
	total    int
	done     bool
	sleep    func(ctx context.Context, d time.Duration) error
}

func newPaginator(client *Client, path string, params map[string]string, delay time.Duration) *paginator {
	return &paginator{
		client:   client,
		path:     path,
		params:   params,
		delay:    delay,
		nextPage: 1,
		sleep:    sleepContext,
	}
}

func (p *paginator) More() bool {
	return !p.done
}

func (p *paginator) Next(ctx context.Context) (*Envelope, error) {
	if p.done {
		return nil, fmt.Errorf("paginator for %s is exhausted", p.path)
	}

	// Inter-page delay keeps the request rate polite; the first page
	// goes out immediately.
	if p.nextPage > 1 && p.delay > 0 {
		if err := p.sleep(ctx, p.delay); err != nil {
			return nil, err
		}
	}

	params := make(map[string]string, len(p.params)+1)
	for key, value := range p.params {
		params[key] = value
	}
	params["page"] = strconv.Itoa(p.nextPage)

	env, err := p.client.getPage(ctx, p.path, params)
	if err != nil {
		p.done = true
		return nil, err
	}

	if p.nextPage == 1 {
		p.total = env.PageTotal()
	} else if got := env.PageTotal(); got != p.total {
		p.done = true
		return nil, fmt.Errorf("%w: page %d of %s reports total=%d, page 1 reported total=%d",
			usecase.ErrUpstreamFormat, p.nextPage, p.path, got, p.total)
	}

	if p.nextPage >= p.total {
		p.done = true
	}
	p.nextPage++

	return env, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
