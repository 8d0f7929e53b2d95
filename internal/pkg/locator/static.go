package locator

import (
	"context"
	"time"
)

// StaticProvider always reports the same position, e.g. for kiosks bolted to a
// wall or for --static on the command line.
type StaticProvider struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

func (p StaticProvider) fix() Fix {
	return Fix{Latitude: p.Latitude, Longitude: p.Longitude, Accuracy: p.Accuracy, Timestamp: time.Now()}
}

func (p StaticProvider) CurrentPosition(ctx context.Context, maxAge time.Duration) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	return p.fix(), nil
}

func (p StaticProvider) Watch(ctx context.Context) (<-chan Fix, error) {
	ch := make(chan Fix, 1)
	ch <- p.fix()
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
