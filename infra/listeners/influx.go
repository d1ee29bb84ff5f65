package listeners

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/waterlog/core/logging"
)

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Influx writes every line as a point with the log and tag as tags.
type Influx struct {
	*logging.Base
	Measurement string

	client   influxdb2.Client
	writeAPI pointWriter
	now      func() time.Time
}

// NewInflux creates a listener for the given InfluxDB endpoint. No request
// is made until the first write.
func NewInflux(name, url, token, org, bucket string) *Influx {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &Influx{
		Base:        logging.NewBase(name),
		Measurement: "log_message",
		client:      client,
		writeAPI:    client.WriteAPIBlocking(org, bucket),
		now:         time.Now,
	}
}

func (i *Influx) Write(message, tag string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement(i.Measurement)
	if l := i.Owner(); l != nil {
		p.AddTag("log", l.Name())
	}
	if tag != "" {
		p.AddTag("tag", tag)
	}
	p.AddField("message", strings.TrimSuffix(message, "\n")).SetTime(i.now())
	return i.writeAPI.WritePoint(ctx, p)
}

func (i *Influx) Close() error {
	if i.client != nil {
		i.client.Close()
	}
	return nil
}
