// ABOUTME: Calendar importer that turns shared meetings into logged interactions
// ABOUTME: Handles pagination, sync tokens, event filtering and per-attendee deduplication
package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/kith/cadence"
	"github.com/harperreed/kith/db"
	"github.com/harperreed/kith/models"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

const (
	calendarService = "calendar"
	maxResults      = 250 // Google Calendar API max per page

	// initialLookbackMonths is how far back a first sync reaches.
	initialLookbackMonths = 6
)

// shouldSkipEvent reports whether an event cannot represent time spent with
// someone, and why.
func shouldSkipEvent(event *calendar.Event) (bool, string) {
	if event == nil {
		return true, "nil event"
	}
	if event.Start == nil {
		return true, "missing start time"
	}
	if event.Start.Date != "" {
		return true, "all-day"
	}
	if event.Status == "cancelled" {
		return true, "cancelled"
	}
	for _, attendee := range event.Attendees {
		if attendee.Self && attendee.ResponseStatus == "declined" {
			return true, "declined"
		}
	}
	if len(event.Attendees) <= 1 {
		return true, "solo"
	}
	return false, ""
}

// eventInteractionType treats events with a video link as a video call.
func eventInteractionType(event *calendar.Event) models.InteractionType {
	if event.HangoutLink != "" || event.ConferenceData != nil {
		return models.InteractionFaceTime
	}
	return models.InteractionInPerson
}

func eventDate(event *calendar.Event) (time.Time, error) {
	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse event start: %w", err)
	}
	return cadence.DateOf(start), nil
}

// interactionsFromEvent matches attendees to known contacts. Declined
// attendees, the user and unknown emails produce nothing.
func interactionsFromEvent(event *calendar.Event, matcher *ContactMatcher) ([]models.PendingInteraction, error) {
	date, err := eventDate(event)
	if err != nil {
		return nil, err
	}

	var out []models.PendingInteraction
	seen := make(map[string]bool)
	for _, attendee := range event.Attendees {
		if attendee.Self || attendee.ResponseStatus == "declined" {
			continue
		}
		contact, ok := matcher.FindByEmail(attendee.Email)
		if !ok || seen[contact.ID.String()] {
			continue
		}
		seen[contact.ID.String()] = true

		out = append(out, models.PendingInteraction{
			SourceID: event.Id + "/" + contact.ID.String(),
			EventID:  event.Id,
			Interaction: models.Interaction{
				ContactID:         contact.ID,
				DateOfInteraction: date,
				Type:              eventInteractionType(event),
				Notes:             event.Summary,
			},
		})
	}
	return out, nil
}

// CalendarSummary counts what a calendar import did.
type CalendarSummary struct {
	Events       int
	Interactions int
	Deferred     int
	Skipped      map[string]int
}

// ImportCalendar pulls events from the primary calendar and logs an
// interaction per known attendee. Incremental runs resume from the stored
// sync token; initial forces a fresh six-month window. Meetings dated after
// today are held as pending and logged by the first run on or after their
// date, since the sync token will not return them again.
func ImportCalendar(ctx context.Context, database *sql.DB, client *calendar.Service, initial bool, today time.Time) (*CalendarSummary, error) {
	log.Info("syncing Google Calendar")
	if err := db.UpdateSyncStatus(database, calendarService, models.SyncStatusSyncing, ""); err != nil {
		return nil, err
	}
	fail := func(err error) (*CalendarSummary, error) {
		_ = db.UpdateSyncStatus(database, calendarService, models.SyncStatusError, err.Error())
		return nil, err
	}

	state, err := db.GetSyncState(database, calendarService)
	if err != nil {
		return fail(err)
	}

	contacts, err := db.ListContacts(database)
	if err != nil {
		return fail(err)
	}
	matcher := NewContactMatcher(contacts)

	newCall := func(timeMin time.Time) *calendar.EventsListCall {
		return client.Events.List("primary").
			MaxResults(maxResults).
			SingleEvents(true).
			Context(ctx).
			TimeMin(timeMin.Format(time.RFC3339))
	}
	lookback := today.AddDate(0, -initialLookbackMonths, 0)

	var call *calendar.EventsListCall
	if !initial && state != nil && state.LastSyncToken != "" {
		log.Debug("incremental calendar sync")
		call = client.Events.List("primary").MaxResults(maxResults).SingleEvents(true).Context(ctx).
			SyncToken(state.LastSyncToken)
	} else {
		log.Debug("calendar sync from lookback", "since", cadence.FormatDate(lookback))
		call = newCall(lookback)
	}

	summary := &CalendarSummary{Skipped: make(map[string]int)}
	pageToken, syncToken := "", ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusGone {
			// Expired sync token: start over from the last successful run.
			log.Warn("calendar sync token expired, falling back to time window")
			since := lookback
			if state != nil && state.LastSyncTime != nil {
				since = *state.LastSyncTime
			}
			call = newCall(since)
			pageToken = ""
			events, err = call.Do()
		}
		if err != nil {
			return fail(fmt.Errorf("failed to fetch calendar events: %w", err))
		}

		summary.Events += len(events.Items)
		for _, event := range events.Items {
			if skip, reason := shouldSkipEvent(event); skip {
				summary.Skipped[reason]++
				// A cancelled or declined meeting takes its pending entries with it.
				if event != nil && event.Id != "" {
					if err := db.DeletePendingForEvent(database, calendarService, event.Id); err != nil {
						return fail(err)
					}
				}
				continue
			}
			logged, deferred, err := logEventInteractions(database, event, matcher, today)
			if err != nil {
				log.Warn("failed to import event", "event", event.Summary, "err", err)
				summary.Skipped["error"]++
				continue
			}
			summary.Interactions += logged
			summary.Deferred += deferred
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			syncToken = events.NextSyncToken
			break
		}
	}

	due, err := logDuePending(database, today)
	if err != nil {
		return fail(err)
	}
	summary.Interactions += due

	if err := db.MarkSynced(database, calendarService, syncToken); err != nil {
		return fail(err)
	}

	log.Info("calendar sync finished", "events", summary.Events, "interactions", summary.Interactions, "deferred", summary.Deferred)
	return summary, nil
}

// logEventInteractions writes the event's interactions that were not imported
// before and holds the ones dated after today as pending. The event's earlier
// pending entries are replaced, so a rescheduled meeting keeps one date.
func logEventInteractions(database *sql.DB, event *calendar.Event, matcher *ContactMatcher, today time.Time) (logged, deferred int, err error) {
	found, err := interactionsFromEvent(event, matcher)
	if err != nil {
		return 0, 0, err
	}
	if err := db.DeletePendingForEvent(database, calendarService, event.Id); err != nil {
		return 0, 0, err
	}

	for i := range found {
		p := &found[i]
		if p.Interaction.DateOfInteraction.After(cadence.DateOf(today)) {
			if err := db.SavePendingInteraction(database, calendarService, p); err != nil {
				return logged, deferred, err
			}
			deferred++
			continue
		}

		ok, err := logOnce(database, p, today)
		if err != nil {
			return logged, deferred, err
		}
		if ok {
			logged++
		}
	}

	return logged, deferred, nil
}

// logDuePending logs pending meetings whose date has arrived.
func logDuePending(database *sql.DB, today time.Time) (int, error) {
	due, err := db.ListDuePendingInteractions(database, calendarService, today)
	if err != nil {
		return 0, err
	}

	logged := 0
	for i := range due {
		ok, err := logOnce(database, &due[i], today)
		if err != nil {
			return logged, err
		}
		if ok {
			logged++
		}
		if err := db.DeletePendingInteraction(database, calendarService, due[i].SourceID); err != nil {
			return logged, err
		}
	}

	return logged, nil
}

// logOnce logs p unless its source was imported before.
func logOnce(database *sql.DB, p *models.PendingInteraction, today time.Time) (bool, error) {
	exists, err := db.CheckSyncLogExists(database, calendarService, p.SourceID)
	if err != nil || exists {
		return false, err
	}

	interaction := p.Interaction
	if err := db.LogInteraction(database, &interaction, today); err != nil {
		return false, err
	}
	if err := db.LogSync(database, calendarService, p.SourceID, "interaction", interaction.ID, ""); err != nil {
		return false, err
	}
	return true, nil
}
