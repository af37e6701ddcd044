package builtin

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-hypermedia/pkg/markup"
	"github.com/goliatone/go-hypermedia/pkg/render"
)

var (
	timeType     = render.TypeOf[time.Time]()
	durationType = render.TypeOf[time.Duration]()
)

// Time renders time.Time as <time datetime>. The attribute is RFC 3339 with
// nanoseconds so it parses back to the same instant; the body uses the
// configured layout.
type Time struct{}

func (Time) Name() string { return "time" }

func (Time) Supports(t reflect.Type) bool {
	return render.Exact(timeType)(t)
}

func (Time) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	value, ok := elem(prop)
	if !ok {
		return single(ctx.Null("time", prop.Name))
	}
	instant, ok := value.Interface().(time.Time)
	if !ok {
		return nil, fmt.Errorf("builtin: time: unexpected %s", value.Type())
	}
	node := ctx.Itemprop(markup.Element("time"), prop.Name).
		SetAttr("datetime", instant.Format(time.RFC3339Nano))
	return single(node.Append(markup.Text(instant.Format(ctx.Config().TimeLayout))))
}

// Duration renders time.Duration as <time> with an ISO 8601 duration.
type Duration struct{}

func (Duration) Name() string { return "duration" }

func (Duration) Supports(t reflect.Type) bool {
	return render.Exact(durationType)(t)
}

func (Duration) Render(ctx *render.Context, prop render.Property) ([]*markup.Node, error) {
	value, ok := elem(prop)
	if !ok {
		return single(ctx.Null("time", prop.Name))
	}
	d := time.Duration(value.Int())
	node := ctx.Itemprop(markup.Element("time"), prop.Name).
		SetAttr("datetime", ISODuration(d))
	return single(node.Append(markup.Text(d.String())))
}

// ISODuration formats d as an ISO 8601 duration using hours, minutes and
// seconds, e.g. PT1H30M or PT0.5S. Days are not used because a Go duration
// carries no calendar.
func ISODuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var builder strings.Builder
	if d < 0 {
		builder.WriteByte('-')
		d = -d
	}
	builder.WriteString("PT")

	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute

	if hours > 0 {
		builder.WriteString(strconv.FormatInt(int64(hours), 10))
		builder.WriteByte('H')
	}
	if minutes > 0 {
		builder.WriteString(strconv.FormatInt(int64(minutes), 10))
		builder.WriteByte('M')
	}
	if d > 0 {
		seconds := strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
		builder.WriteString(seconds)
		builder.WriteByte('S')
	}
	return builder.String()
}
