// Command movienest is a terminal front end for the MovieNest API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"movienest/src/client"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type command struct {
	name  string
	usage string
	admin bool
	auth  bool
	run   func(ctx context.Context, c *client.Client, args []string) error
}

var commands = []command{
	{name: "login", usage: "login <username> <password>", run: login},
	{name: "register", usage: "register [-name N] [-email E] [-age A] <username> <password>", run: register},
	{name: "logout", usage: "logout", auth: true, run: logout},
	{name: "whoami", usage: "whoami", run: whoami},
	{name: "movies", usage: "movies [-title T] [-genre G] [-year Y]", run: movies},
	{name: "genres", usage: "genres", run: genres},
	{name: "recommended", usage: "recommended", run: recommended},
	{name: "trending", usage: "trending [-count N]", run: trending},
	{name: "upcoming", usage: "upcoming", run: upcoming},
	{name: "watchlist", usage: "watchlist [add|remove <movieId>]", auth: true, run: listCommand(client.Watchlist)},
	{name: "favorites", usage: "favorites [add|remove <movieId>]", auth: true, run: listCommand(client.Favorites)},
	{name: "add-movie", usage: "add-movie [-genre G] [-year Y] [-rating R] <title>", admin: true, run: addMovie},
	{name: "delete-movie", usage: "delete-movie <movieId>", admin: true, run: deleteMovie},
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	defaultPath, _ := client.DefaultSessionPath()
	server := flag.String("server", envOr("MOVIENEST_URL", "http://localhost:8080"), "API base URL")
	sessionPath := flag.String("session", defaultPath, "session file")
	flag.Parse()

	session := client.NewSessionStore(*sessionPath)
	if _, err := session.Load(); err != nil {
		log.Warn().Err(err).Msg("could not read session, continuing signed out")
	}
	c := client.New(*server, session)

	args := flag.Args()
	if len(args) == 0 || args[0] == "help" {
		printUsage(session)
		return
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage(session)
		os.Exit(2)
	}
	if (cmd.auth || cmd.admin) && session.State() != client.Authenticated {
		log.Fatal().Msg("sign in first: movienest login <username> <password>")
	}
	if cmd.admin && !session.IsAdmin() {
		log.Fatal().Msg("this command needs an administrator account")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, c, args[1:]); err != nil {
		stop()
		report(err)
		os.Exit(1)
	}
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

// printUsage only lists what the current session may run.
func printUsage(session *client.SessionStore) {
	state := session.State()
	fmt.Fprintf(os.Stderr, "usage: movienest [-server URL] [-session FILE] <command>\n\ncommands (%s):\n", state)
	for _, cmd := range commands {
		if cmd.admin && !session.IsAdmin() {
			continue
		}
		if cmd.auth && state != client.Authenticated {
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s\n", cmd.usage)
	}
}

func report(err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		ev := log.Error().Int("status", apiErr.StatusCode).Str("kind", apiErr.Status)
		for _, fe := range apiErr.Errors {
			ev = ev.Str(fe.PropertyName, fe.ErrorMessage)
		}
		ev.Msg(apiErr.Message)
	case errors.Is(err, client.ErrTransport):
		log.Error().Err(err).Msg("could not reach the server")
	default:
		log.Error().Err(err).Msg("command failed")
	}
}

func login(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <username> <password>")
	}
	p, err := c.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", p.Username, p.Role)
	return nil
}

func register(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	age := fs.Int("age", 0, "age")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: register [-name N] [-email E] [-age A] <username> <password>")
	}

	in := client.RegisterInput{Username: fs.Arg(0), Password: fs.Arg(1), FullName: *name}
	if *email != "" {
		in.Email = email
	}
	if *age > 0 {
		in.Age = age
	}
	p, err := c.Register(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", p.Username)
	return nil
}

func logout(_ context.Context, c *client.Client, _ []string) error {
	if err := c.Logout(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func whoami(_ context.Context, c *client.Client, _ []string) error {
	p, ok := c.Session().Current()
	if !ok {
		fmt.Println("anonymous")
		return nil
	}
	fmt.Printf("%s (id %d, %s)\n", p.Username, p.UserID, p.Role)
	return nil
}

func movies(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("movies", flag.ContinueOnError)
	var f client.MovieFilter
	fs.StringVar(&f.Title, "title", "", "title contains")
	fs.StringVar(&f.Genre, "genre", "", "comma-separated genres")
	fs.IntVar(&f.Year, "year", 0, "release year")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var list []client.Movie
	var err error
	if f == (client.MovieFilter{}) {
		list, err = c.Movies(ctx)
	} else {
		list, err = c.SearchMovies(ctx, f)
	}
	if err != nil {
		return err
	}
	printMovies(list)
	return nil
}

func genres(ctx context.Context, c *client.Client, _ []string) error {
	list, err := c.Genres(ctx)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(list, "\n"))
	return nil
}

func recommended(ctx context.Context, c *client.Client, _ []string) error {
	recs, err := c.Recommended(ctx)
	if err != nil {
		return err
	}
	list := make([]client.Movie, 0, len(recs))
	for _, r := range recs {
		if r.Movie != nil {
			list = append(list, *r.Movie)
		}
	}
	printMovies(list)
	return nil
}

func trending(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("trending", flag.ContinueOnError)
	count := fs.Int("count", 10, "how many")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rows, err := c.TopTrending(ctx, *count)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tID\tTITLE")
	for _, r := range rows {
		title := ""
		if r.Movie != nil {
			title = r.Movie.MovieTitle
		}
		fmt.Fprintf(w, "%.2f\t%d\t%s\n", r.TrendingScore, r.MovieID, title)
	}
	return w.Flush()
}

func upcoming(ctx context.Context, c *client.Client, _ []string) error {
	rows, err := c.ReleasingSoon(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTITLE\tGENRE")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.ReleaseDate.Format(time.DateOnly), r.MovieTitle, r.MovieGenre)
	}
	return w.Flush()
}

func listCommand(kind client.ListKind) func(context.Context, *client.Client, []string) error {
	return func(ctx context.Context, c *client.Client, args []string) error {
		if len(args) == 0 {
			entries, err := c.List(ctx, kind)
			if err != nil {
				return err
			}
			list := make([]client.Movie, 0, len(entries))
			for _, e := range entries {
				if e.Movie != nil {
					list = append(list, *e.Movie)
				}
			}
			printMovies(list)
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("usage: %s [add|remove <movieId>]", kind)
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		switch args[0] {
		case "add":
			if _, err := c.AddToList(ctx, kind, id); err != nil {
				return err
			}
			fmt.Printf("added movie %d to %s\n", id, kind)
		case "remove":
			if err := c.RemoveFromList(ctx, kind, id); err != nil {
				return err
			}
			fmt.Printf("removed movie %d from %s\n", id, kind)
		default:
			return fmt.Errorf("unknown %s action %q", kind, args[0])
		}
		return nil
	}
}

func addMovie(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("add-movie", flag.ContinueOnError)
	genre := fs.String("genre", "", "comma-separated genres")
	year := fs.Int("year", 0, "release year")
	rating := fs.Float64("rating", -1, "rating 0-10")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: add-movie [-genre G] [-year Y] [-rating R] <title>")
	}

	in := client.MovieInput{MovieTitle: strings.Join(fs.Args(), " "), MovieGenre: *genre}
	if *year > 0 {
		in.ReleaseYear = year
	}
	if *rating >= 0 {
		in.Rating = rating
	}
	m, err := c.CreateMovie(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("created movie %d: %s\n", m.MovieID, m.MovieTitle)
	return nil
}

func deleteMovie(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete-movie <movieId>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := c.DeleteMovie(ctx, id); err != nil {
		return err
	}
	fmt.Printf("deleted movie %d\n", id)
	return nil
}

func printMovies(list []client.Movie) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tGENRE\tYEAR\tRATING")
	for _, m := range list {
		year, rating := "-", "-"
		if m.ReleaseYear != nil {
			year = strconv.Itoa(*m.ReleaseYear)
		}
		if m.Rating != nil {
			rating = strconv.FormatFloat(*m.Rating, 'f', 1, 64)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.MovieID, m.MovieTitle, m.MovieGenre, year, rating)
	}
	_ = w.Flush()
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid movie id %q", raw)
	}
	return uint(id), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
