package setup

import (
	"strconv"
	"strings"
	"xtvredirect/entity"
)

// Transition is the whole setup conversation as a pure function: given the
// current session (nil when there is none) and an event, it returns the next
// session and the effects to perform. A nil or terminal next session ends the
// conversation.
func Transition(p Policy, s *Session, ev Event) (*Session, []Effect) {
	switch e := ev.(type) {

	case Promoted:
		if !e.NewlyPromoted() {
			return s, nil
		}
		next, effects := p.Begin(e)
		if next == nil {
			return s, effects
		}
		if active(s) {
			return s, []Effect{Reply{Text: textSetupBusy}}
		}
		return next, effects

	case Decision:
		if !e.Accept {
			effects := []Effect{
				EditOrigin{Text: declinedText(e.ChannelID)},
				LeaveChannel{ChannelID: e.ChannelID},
			}
			if s != nil && s.ChannelID == e.ChannelID {
				return cancelled(s), effects
			}
			return s, effects
		}
		if active(s) {
			if s.ChannelID == e.ChannelID {
				return s, nil
			}
			return s, []Effect{Reply{Text: textSetupBusy}}
		}
		next := &Session{State: StateAwaitingApproval, ChannelID: e.ChannelID}
		return next, []Effect{ResolveChannel{ChannelID: e.ChannelID}}

	case ChannelResolved:
		if !awaiting(s, e.ChannelID) {
			return s, nil
		}
		next := s.clone()
		next.ChannelTitle = e.Title
		return next, []Effect{MintInvite{ChannelID: e.ChannelID, Name: inviteName}}

	case ChannelUnreachable:
		if !awaiting(s, e.ChannelID) {
			return s, nil
		}
		return cancelled(s), []Effect{EditOrigin{Text: unreachableText(e.ChannelID, e.Err)}}

	case InviteMinted:
		if s == nil || s.State != StateAwaitingApproval {
			return s, nil
		}
		next := s.clone()
		next.InviteLink = e.Link
		next.State = StateSeriesName
		return next, []Effect{EditOrigin{Text: setupStartedText(next.ChannelTitle, e.Link)}}

	case InviteFailed:
		if s == nil || s.State != StateAwaitingApproval {
			return s, nil
		}
		return cancelled(s), []Effect{EditOrigin{Text: inviteFailedText(s.ChannelTitle)}}

	case Text:
		if s == nil || s.State != StateSeriesName {
			return s, nil
		}
		if blank(e.Text) {
			return s, []Effect{Reply{Text: textEnterValidName}}
		}
		query := strings.TrimSpace(e.Text)
		return s, []Effect{
			Reply{Text: searchingText(query)},
			Search{Query: query},
		}

	case SearchDone:
		if s == nil || s.State != StateSeriesName {
			return s, nil
		}
		if len(e.Results) == 0 {
			return s, []Effect{Reply{Text: textNoResults}}
		}
		results := e.Results
		if len(results) > maxCandidates {
			results = results[:maxCandidates]
		}
		next := s.clone()
		next.Results = append([]entity.SearchResult(nil), results...)
		next.State = StateSeriesSelection
		return next, []Effect{Reply{Text: textSelectSeries, Keyboard: resultsKeyboard(next.Results)}}

	case Selection:
		return selection(s, e.Data)

	case Persisted:
		return s, []Effect{EditOrigin{Text: completeText(e.Series, e.Link)}}

	case PersistFailed:
		return s, []Effect{EditOrigin{Text: textDatabaseError}}

	case Cancel:
		if s == nil {
			return nil, nil
		}
		return cancelled(s), []Effect{Reply{Text: textCancelledCommand}}
	}

	return s, nil
}

func selection(s *Session, data string) (*Session, []Effect) {
	if s == nil {
		if data == CbCancel {
			return nil, []Effect{EditOrigin{Text: textCancelled}}
		}
		return nil, []Effect{EditOrigin{Text: textSessionExpired}}
	}
	if data == CbCancel {
		return cancelled(s), []Effect{EditOrigin{Text: textCancelled}}
	}
	if s.State != StateSeriesSelection || !strings.HasPrefix(data, CbSelect) {
		return s, nil
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(data, CbSelect))
	if err != nil || idx < 0 || idx >= len(s.Results) {
		next := s.clone()
		next.Results = nil
		next.State = StateSeriesName
		return next, []Effect{EditOrigin{Text: textSelectionError}}
	}

	if s.ChannelID == 0 || s.InviteLink == "" {
		return cancelled(s), []Effect{EditOrigin{Text: textSessionExpired}}
	}

	picked := s.Results[idx]
	record := entity.RedirectRecord{
		SeriesName: picked.Title,
		CatalogId:  picked.CatalogId,
		MediaType:  picked.MediaType,
		ChannelId:  s.ChannelID,
		InviteLink: s.InviteLink,
	}
	// the session ends here so a second click cannot create a second record
	next := s.clone()
	next.State = StateComplete
	return next, []Effect{Persist{Record: record}}
}

// active is true while another setup conversation still owns the session.
func active(s *Session) bool {
	return s != nil && !s.State.Terminal()
}

func awaiting(s *Session, channelID int64) bool {
	return s != nil && s.State == StateAwaitingApproval && s.ChannelID == channelID
}

func cancelled(s *Session) *Session {
	next := s.clone()
	if next == nil {
		next = &Session{}
	}
	next.State = StateCancelled
	return next
}
