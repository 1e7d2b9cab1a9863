package e2e

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient reads back what the roster sink wrote during an E2E run.
type InfluxClient struct {
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a new client for the given parameters. It assumes
// the server is already running and reachable.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{
		bucket: bucket,
		client: c,
		query:  c.QueryAPI(org),
	}
}

// CountDays returns the number of roster_day points carrying the given field.
func (c *InfluxClient) CountDays(ctx context.Context, field string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: 0)
  |> filter(fn: (r) => r._measurement == "roster_day" and r._field == %q)`, c.bucket, field)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	n := 0
	for res.Next() {
		n++
	}
	return n, res.Err()
}

// WaitBucket polls until the bucket created by the container setup is
// visible or ctx expires.
func (c *InfluxClient) WaitBucket(ctx context.Context) error {
	buckets := c.client.BucketsAPI()
	for {
		b, err := buckets.FindBucketByName(ctx, c.bucket)
		if err == nil && b != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("bucket %s not ready: %w", c.bucket, ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
