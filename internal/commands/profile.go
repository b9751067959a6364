package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&ProfileCmd{})
}

// ProfileCmd shows the signed-in user's profile, or updates it when any
// field flag is given.
type ProfileCmd struct {
	fullName optionalString
	bio      optionalString
	location optionalString
	avatar   optionalString
}

// SetFullName sets the new full name (for testing).
func (c *ProfileCmd) SetFullName(s string) { _ = c.fullName.Set(s) }

// SetBio sets the new bio (for testing).
func (c *ProfileCmd) SetBio(s string) { _ = c.bio.Set(s) }

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return []string{"whoami"} }
func (c *ProfileCmd) Synopsis() string  { return "Show or update your profile" }
func (c *ProfileCmd) NeedsAuth() bool   { return true }

func (c *ProfileCmd) Usage() string {
	return "taskdeck profile [--full-name <n>] [--bio <b>] [--location <l>] [--avatar <url>]"
}

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = ProfileCmd{}
	fs.Var(&c.fullName, "full-name", "")
	fs.Var(&c.bio, "bio", "")
	fs.Var(&c.location, "location", "")
	fs.Var(&c.avatar, "avatar", "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	current, err := svc.Profile(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	if !c.fullName.set && !c.bio.set && !c.location.set && !c.avatar.set {
		newPrinter(cfg, out).Profile(current)
		return exitcode.Success
	}

	in := service.ProfileInput{
		FullName:  current.FullName,
		Bio:       current.Bio,
		Location:  current.Location,
		AvatarURL: current.AvatarURL,
	}
	if c.fullName.set {
		in.FullName = c.fullName.value
	}
	if c.bio.set {
		in.Bio = c.bio.value
	}
	if c.location.set {
		in.Location = c.location.value
	}
	if c.avatar.set {
		in.AvatarURL = c.avatar.value
	}

	if _, err := svc.UpdateProfile(ctx, in); err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
