package navix_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/navix"
	"github.com/hupe1980/navix/vectorstore"
)

func Example() {
	ctx := context.Background()

	store, err := vectorstore.FromRows([][]float32{
		{0, 0},
		{1, 0},
		{0, 1},
		{10, 10},
	})
	if err != nil {
		panic(err)
	}

	idx, err := navix.Open(navix.KindNSG, store.Dimension(), navix.MetricL2,
		navix.WithVectors(store),
	)
	if err != nil {
		panic(err)
	}

	if err := idx.Train(ctx, nil); err != nil {
		panic(err)
	}

	results, err := idx.Search(ctx, []float32{0.1, 0.1}, 1)
	if err != nil {
		panic(err)
	}

	fmt.Println(results[0].ID)
	// Output: 0
}
