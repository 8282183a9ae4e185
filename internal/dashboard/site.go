package dashboard

import (
	"context"
	"fmt"

	"github.com/debemdeboas/folio/internal/errs"
	"github.com/debemdeboas/folio/internal/model"
)

// SiteEditor edits config.json: about text, contact info, social links and
// site settings. They share one file, so saving any of them also publishes
// pending edits to the others.
type SiteEditor struct {
	d   *Dashboard
	rec *Record[model.SiteConfig]
}

func (e *SiteEditor) Record() *Record[model.SiteConfig] { return e.rec }

func (e *SiteEditor) View() model.SiteConfig { return e.rec.Store().CurrentView() }

func (e *SiteEditor) save(ctx context.Context, op, message string, fn func(*model.SiteConfig) error) error {
	if err := e.rec.mutate(op, fn); err != nil {
		return err
	}
	return e.rec.publish(ctx, e.d.remote, message)
}

func (e *SiteEditor) SaveAbout(ctx context.Context, html string) error {
	return e.save(ctx, "save about", "Update about section", func(c *model.SiteConfig) error {
		c.About.HTML = html
		return nil
	})
}

func (e *SiteEditor) SaveContact(ctx context.Context, contact model.Contact) error {
	return e.save(ctx, "save contact", "Update contact info", func(c *model.SiteConfig) error {
		c.Contact = contact
		return nil
	})
}

func (e *SiteEditor) SaveSettings(ctx context.Context, site model.SiteInfo) error {
	return e.save(ctx, "save settings", "Update site settings", func(c *model.SiteConfig) error {
		c.Site = site
		return nil
	})
}

// AddSocial appends an empty LinkedIn link and returns its index.
func (e *SiteEditor) AddSocial() (int, error) {
	var idx int
	err := e.rec.mutate("add social", func(c *model.SiteConfig) error {
		c.Socials = append(c.Socials, model.Social{Icon: model.SocialIcons[0]})
		idx = len(c.Socials) - 1
		return nil
	})
	return idx, err
}

func (e *SiteEditor) UpdateSocial(i int, s model.Social) error {
	return e.rec.mutate("update social", func(c *model.SiteConfig) error {
		if i < 0 || i >= len(c.Socials) {
			return errs.NotFound("update social", fmt.Sprintf("no social link at %d", i))
		}
		c.Socials[i] = s
		return nil
	})
}

func (e *SiteEditor) RemoveSocial(i int) error {
	return e.rec.mutate("remove social", func(c *model.SiteConfig) error {
		if i < 0 || i >= len(c.Socials) {
			return errs.NotFound("remove social", fmt.Sprintf("no social link at %d", i))
		}
		c.Socials = append(c.Socials[:i], c.Socials[i+1:]...)
		return nil
	})
}

// SetSocials replaces the whole list, as a form submit does.
func (e *SiteEditor) SetSocials(socials []model.Social) error {
	return e.rec.mutate("set socials", func(c *model.SiteConfig) error {
		c.Socials = append([]model.Social{}, socials...)
		return nil
	})
}

func (e *SiteEditor) SaveSocials(ctx context.Context) error {
	return e.rec.publish(ctx, e.d.remote, "Update social links")
}
