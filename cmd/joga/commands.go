package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/yLucasx3/joga-go/activities"
	"github.com/yLucasx3/joga-go/api"
	"github.com/yLucasx3/joga-go/fields"
	"github.com/yLucasx3/joga-go/internal/utils"
	"github.com/yLucasx3/joga-go/users"
)

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if user != nil {
		fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	} else {
		fmt.Println("Signed in")
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	phone := fs.String("phone", "", "phone number (optional)")
	organization := fs.String("org", "", "organization name (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.auth.Register(ctx, api.RegisterParams{
		Email:            *email,
		Password:         *password,
		Phone:            *phone,
		OrganizationName: *organization,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created for %s. Sign in with: joga login\n", user.Email)
	return nil
}

func (a *app) me(ctx context.Context) error {
	user, err := a.users.Me(ctx)
	if err != nil {
		// Fall back to the cached record when offline.
		if api.IsKind(err, api.KindNetworkError) {
			if cached, cacheErr := a.users.CachedUser(); cacheErr == nil {
				fmt.Printf("%s <%s> (cached)\n", cached.Name, cached.Email)
				return nil
			}
		}
		return err
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	if user.Phone != "" {
		fmt.Println("Phone:", user.Phone)
	}
	return nil
}

func (a *app) updateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	position := fs.String("position", "", "preferred position")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := users.UpdateProfileParams{}
	if *name != "" {
		params.Name = utils.Ptr(*name)
	}
	if *phone != "" {
		params.Phone = utils.Ptr(*phone)
	}
	if *position != "" {
		params.Position = utils.Ptr(*position)
	}
	if params.Name == nil && params.Phone == nil && params.Position == nil {
		return fmt.Errorf("nothing to update, pass -name, -phone or -position")
	}

	user, err := a.users.UpdateProfile(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("Updated profile for %s\n", user.Name)
	return nil
}

func (a *app) listActivities(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("activities", flag.ContinueOnError)
	sport := fs.String("sport", "", "filter by sport")
	city := fs.String("city", "", "filter by city")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.activities.List(ctx, activities.ListParams{
		Sport: *sport,
		City:  *city,
		Page:  *page,
	})
	if err != nil {
		return err
	}

	if len(result.Items) == 0 {
		fmt.Println("No activities found")
		return nil
	}
	for _, activity := range result.Items {
		fmt.Printf("%s  %-10s %-24s %s  %d/%d players\n",
			activity.ID, activity.Sport, activity.Title,
			activity.StartsAt.Format("Mon 02 Jan 15:04"),
			len(activity.Participants), activity.MaxPlayers)
	}
	return nil
}

func (a *app) joinActivity(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	id := fs.String("id", "", "activity id")
	name := fs.String("name", "", "your name")
	phone := fs.String("phone", "", "your phone")
	if err := fs.Parse(args); err != nil {
		return err
	}

	participant, err := a.activities.Join(ctx, *id, activities.JoinParams{Name: *name, Phone: *phone})
	if err != nil {
		if api.IsKind(err, api.KindActivityFull) {
			return fmt.Errorf("that activity is already full")
		}
		if api.IsKind(err, api.KindAlreadyParticipant) {
			return fmt.Errorf("you already joined that activity")
		}
		return err
	}
	fmt.Printf("Joined as %s\n", participant.Name)
	return nil
}

func (a *app) nearbyFields(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fields", flag.ContinueOnError)
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	radius := fs.Int("radius", 10, "radius in km")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cursor := ""
	for {
		page, err := a.fields.NearbyFields(ctx, fields.NearbyParams{
			Latitude:  *lat,
			Longitude: *lng,
			RadiusKM:  *radius,
			Cursor:    cursor,
		})
		if err != nil {
			return err
		}
		for _, field := range page.Items {
			fmt.Printf("%s  %-24s %s (%.1f km)\n", field.ID, field.Name, field.Address, field.DistanceKM)
		}
		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

func (a *app) searchCourts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("courts", flag.ContinueOnError)
	query := fs.String("q", "", "search query")
	if err := fs.Parse(args); err != nil {
		return err
	}

	courts, err := a.fields.SearchCourts(ctx, *query)
	if err != nil {
		return err
	}
	if len(courts) == 0 {
		fmt.Println("No courts found")
		return nil
	}
	for _, court := range courts {
		fmt.Printf("%s  %-24s %s\n", court.ID, court.Name, court.Sport)
	}
	return nil
}
