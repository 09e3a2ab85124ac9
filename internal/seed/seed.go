// Package seed loads fixture data from YAML through the services, so seeded
// records obey the same rules as API writes.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"activity-booking-service/internal/domain/activity"
	"activity-booking-service/internal/domain/agency"
	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/domain/booking"
	"activity-booking-service/internal/domain/staff"
	"activity-booking-service/internal/pkg/validation"
	activitysvc "activity-booking-service/internal/service/activity"
	agencysvc "activity-booking-service/internal/service/agency"
	agentsvc "activity-booking-service/internal/service/agent"
	bookingsvc "activity-booking-service/internal/service/booking"
	staffsvc "activity-booking-service/internal/service/staff"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Entry is one record. Besides the request fields it may carry "ref", a
// local name other entries use to point at it, and the reference keys
// "agency", "activity" and "agent".
type Entry map[string]interface{}

// File is the fixture document.
type File struct {
	Agencies   []Entry `yaml:"agencies"`
	Agents     []Entry `yaml:"agents"`
	Staff      []Entry `yaml:"staff"`
	Activities []Entry `yaml:"activities"`
	Bookings   []Entry `yaml:"bookings"`
}

// Result counts the records created.
type Result struct {
	Agencies   int
	Agents     int
	Staff      int
	Activities int
	Bookings   int
}

type Services struct {
	Agencies   *agencysvc.AgencyService
	Agents     *agentsvc.AgentService
	Staff      *staffsvc.StaffService
	Activities *activitysvc.ActivityService
	Bookings   *bookingsvc.BookingService
}

type Loader struct {
	svc    Services
	logger *zap.Logger
}

func NewLoader(svc Services, logger *zap.Logger) *Loader {
	return &Loader{svc: svc, logger: logger}
}

// LoadFile reads and applies a fixture file.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	res, err := l.Load(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}

	l.logger.Info("seed data loaded",
		zap.String("path", path),
		zap.Int("agencies", res.Agencies),
		zap.Int("agents", res.Agents),
		zap.Int("staff", res.Staff),
		zap.Int("activities", res.Activities),
		zap.Int("bookings", res.Bookings),
	)
	return res, nil
}

// Load applies a fixture document. It stops at the first failing record.
func (l *Loader) Load(ctx context.Context, data []byte) (*Result, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	refs := newRefs()
	res := &Result{}

	for i, e := range file.Agencies {
		var req agency.CreateAgencyRequest
		ref, err := decode(e, refs, &req)
		if err != nil {
			return nil, fmt.Errorf("agencies[%d]: %w", i, err)
		}
		created, err := l.svc.Agencies.CreateAgency(ctx, &req)
		if err != nil {
			return nil, fmt.Errorf("agencies[%d]: %w", i, err)
		}
		refs.set("agency", ref, created.ID)
		res.Agencies++
	}

	for i, e := range file.Agents {
		var req agent.CreateAgentRequest
		ref, err := decode(e, refs, &req)
		if err != nil {
			return nil, fmt.Errorf("agents[%d]: %w", i, err)
		}
		created, err := l.svc.Agents.CreateAgent(ctx, &req)
		if err != nil {
			return nil, fmt.Errorf("agents[%d]: %w", i, err)
		}
		refs.set("agent", ref, created.ID)
		res.Agents++
	}

	for i, e := range file.Staff {
		var req staff.CreateStaffRequest
		if _, err := decode(e, refs, &req); err != nil {
			return nil, fmt.Errorf("staff[%d]: %w", i, err)
		}
		if _, err := l.svc.Staff.CreateStaff(ctx, &req); err != nil {
			return nil, fmt.Errorf("staff[%d]: %w", i, err)
		}
		res.Staff++
	}

	for i, e := range file.Activities {
		var req activity.CreateActivityRequest
		ref, err := decode(e, refs, &req)
		if err != nil {
			return nil, fmt.Errorf("activities[%d]: %w", i, err)
		}
		created, err := l.svc.Activities.CreateActivity(ctx, &req)
		if err != nil {
			return nil, fmt.Errorf("activities[%d]: %w", i, err)
		}
		refs.set("activity", ref, created.ID)
		res.Activities++
	}

	for i, e := range file.Bookings {
		var req booking.CreateBookingRequest
		if _, err := decode(e, refs, &req); err != nil {
			return nil, fmt.Errorf("bookings[%d]: %w", i, err)
		}
		if _, err := l.svc.Bookings.CreateBooking(ctx, &req); err != nil {
			return nil, fmt.Errorf("bookings[%d]: %w", i, err)
		}
		res.Bookings++
	}

	return res, nil
}

// refs maps "kind/ref" to created ids.
type refs map[string]string

func newRefs() refs { return refs{} }

func (r refs) set(kind, ref, id string) {
	if ref != "" {
		r[kind+"/"+ref] = id
	}
}

// referenceKeys maps an entry key to the kind it names and the request
// field receiving the id.
var referenceKeys = map[string][2]string{
	"agency":   {"agency", "agency_id"},
	"activity": {"activity", "activity_id"},
	"agent":    {"agent", "agent_id"},
}

// decode resolves references, then fills out through its json tags and runs
// the request validation rules. It returns the entry's own ref.
func decode(e Entry, r refs, out interface{}) (string, error) {
	fields := make(map[string]interface{}, len(e))
	ref := ""
	for k, v := range e {
		if k == "ref" {
			ref = fmt.Sprint(v)
			continue
		}
		if target, ok := referenceKeys[k]; ok {
			name := fmt.Sprint(v)
			id, found := r[target[0]+"/"+name]
			if !found {
				return "", fmt.Errorf("unknown %s reference %q", target[0], name)
			}
			fields[target[1]] = id
			continue
		}
		fields[k] = normalize(v)
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode entry: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return "", fmt.Errorf("failed to decode entry: %w", err)
	}
	if err := validation.Struct(out); err != nil {
		return "", fmt.Errorf("invalid entry: %w", err)
	}
	return ref, nil
}

// normalize turns unquoted YAML dates back into YYYY-MM-DD strings.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	default:
		return v
	}
}
