// Package moderation rewrites outgoing teacher and review payloads according
// to the admin toggles. Stored rows are never modified.
package moderation

import "github.com/yigit/ratemyteacher/internal/app/models"

// AnonymousName replaces review author names when anonymity is on
const AnonymousName = "Anonymous"

// Policy is a snapshot of the moderation toggles taken for one request
type Policy struct {
	AnonymousReviews  bool
	HideTeacherImages bool
}

// FromConfig builds a policy from the stored admin configuration; nil yields
// the permissive zero policy
func FromConfig(cfg *models.AdminConfig) Policy {
	if cfg == nil {
		return Policy{}
	}
	return Policy{AnonymousReviews: cfg.AnonymousReviews, HideTeacherImages: cfg.HideTeacherImages}
}

// Teacher returns a redacted copy of t
func (p Policy) Teacher(t *models.Teacher) *models.Teacher {
	if t == nil {
		return nil
	}
	out := *t
	if p.HideTeacherImages {
		out.ImageURL = ""
	}
	return &out
}

// Teachers returns redacted copies of ts
func (p Policy) Teachers(ts []*models.Teacher) []*models.Teacher {
	out := make([]*models.Teacher, 0, len(ts))
	for _, t := range ts {
		out = append(out, p.Teacher(t))
	}
	return out
}

// Review returns a redacted copy of r
func (p Policy) Review(r *models.Review) *models.Review {
	if r == nil {
		return nil
	}
	out := *r
	if p.AnonymousReviews {
		out.Username = AnonymousName
	}
	return &out
}

// Reviews returns redacted copies of rs
func (p Policy) Reviews(rs []*models.Review) []*models.Review {
	out := make([]*models.Review, 0, len(rs))
	for _, r := range rs {
		out = append(out, p.Review(r))
	}
	return out
}
