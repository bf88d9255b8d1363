package s3_test

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hupe1980/navix/blobstore/s3"
)

func ExampleNewStore() {
	ctx := context.Background()

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "indexes/")

	names, err := store.List(ctx, "")
	if err != nil {
		log.Fatal(err)
	}

	for _, name := range names {
		log.Println(name)
	}
}
