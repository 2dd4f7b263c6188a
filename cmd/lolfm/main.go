package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "lolfm/internal/cli"
	"lolfm/internal/config"

	"github.com/spf13/cobra"
)

// profile is loaded once at startup; commands fall back to it for the api url and team.
var profile cl.Profile

func main() {
	cfg := config.LoadCLIFromEnv()
	var err error
	if profile, err = cl.LoadProfile(); err != nil {
		printWarn(fmt.Sprintf("ignoring saved profile: %v", err))
	}
	apiBase := cfg.APIBaseURL
	if os.Getenv("LOLFM_API_BASE_URL") == "" && profile.APIBaseURL != "" {
		apiBase = profile.APIBaseURL
	}

	root := &cobra.Command{
		Use:          "lolfm",
		Short:        "League franchise manager operator CLI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL")

	root.AddCommand(
		newClockCmd(&apiBase),
		newLeagueCmd(&apiBase),
		newMatchCmd(&apiBase),
		newTeamCmd(&apiBase),
		newPlayerCmd(&apiBase),
		newFacilityCmd(&apiBase),
		newSponsorCmd(&apiBase),
		newProfileCmd(),
	)

	if err = root.Execute(); err != nil {
		printError(fmt.Sprintf("error: %v", err))
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func parseID(label, v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", label, v)
	}
	return id, nil
}

func newClockCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "Show the in-game calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			c, err := newClient(apiBase).Clock(ctx)
			if err != nil {
				return err
			}
			renderClock(c)
			return nil
		},
	}
}

func newLeagueCmd(apiBase *string) *cobra.Command {
	league := &cobra.Command{
		Use:   "league",
		Short: "League schedule and standings",
	}
	var season int

	schedule := &cobra.Command{
		Use:   "schedule LEAGUE_ID",
		Short: "Regenerate the double round robin for the current season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID, err := parseID("league", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).GenerateSchedule(ctx, leagueID)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Season %d: %d fixtures for %d teams, %s to %s",
				out.SeasonYear, out.Fixtures, out.Teams, out.FirstDate.Format("2006-01-02"), out.LastDate.Format("2006-01-02")))
			return nil
		},
	}

	standings := &cobra.Command{
		Use:   "standings LEAGUE_ID",
		Short: "Show the league table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID, err := parseID("league", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			rows, err := newClient(apiBase).Standings(ctx, leagueID, season)
			if err != nil {
				return err
			}
			renderStandings(rows)
			return nil
		},
	}
	standings.Flags().IntVar(&season, "season", 0, "season year (default: current)")

	matches := &cobra.Command{
		Use:   "matches LEAGUE_ID",
		Short: "List fixtures and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leagueID, err := parseID("league", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			rows, err := newClient(apiBase).LeagueMatches(ctx, leagueID, season)
			if err != nil {
				return err
			}
			renderMatches(rows)
			return nil
		},
	}
	matches.Flags().IntVar(&season, "season", 0, "season year (default: current)")

	league.AddCommand(schedule, standings, matches)
	return league
}

func newMatchCmd(apiBase *string) *cobra.Command {
	match := &cobra.Command{
		Use:   "match",
		Short: "Simulate matches",
	}
	match.AddCommand(&cobra.Command{
		Use:   "simulate MATCH_ID",
		Short: "Resolve a scheduled best-of-three",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, err := parseID("match", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).SimulateMatch(ctx, matchID)
			if err != nil {
				return err
			}
			renderMatchResult(out)
			return nil
		},
	})
	match.AddCommand(&cobra.Command{
		Use:   "exhibition HOME_TEAM_ID AWAY_TEAM_ID",
		Short: "Schedule a friendly that does not count for standings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			away, err := parseID("team", args[1])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			id, err := newClient(apiBase).CreateExhibition(ctx, home, away)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Exhibition match #%d scheduled", id))
			return nil
		},
	})
	return match
}

func newTeamCmd(apiBase *string) *cobra.Command {
	team := &cobra.Command{
		Use:   "team",
		Short: "Team state, settlement and ledger",
	}

	var name, owner string
	var leagueID int64
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a team with a starter roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var league *int64
			if leagueID > 0 {
				league = &leagueID
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			id, err := newClient(apiBase).CreateTeam(ctx, name, league, owner)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Team created: #%d %s", id, name))
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "team name")
	create.Flags().StringVar(&owner, "owner", "", "owner user id (empty for an AI team)")
	create.Flags().Int64Var(&leagueID, "league", 0, "league id")
	_ = create.MarkFlagRequired("name")

	show := &cobra.Command{
		Use:   "show [TEAM_ID]",
		Short: "Show money, fans and facilities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := teamArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).Team(ctx, teamID)
			if err != nil {
				return err
			}
			renderTeam(out)
			return nil
		},
	}

	roster := &cobra.Command{
		Use:   "roster [TEAM_ID]",
		Short: "List rostered players",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := teamArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			players, err := newClient(apiBase).Roster(ctx, teamID)
			if err != nil {
				return err
			}
			renderRoster(players)
			return nil
		},
	}

	settle := &cobra.Command{
		Use:   "settle [TEAM_ID]",
		Short: "Charge this month's maintenance now",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := teamArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).SettleTeam(ctx, teamID)
			if err != nil {
				return err
			}
			renderSettlement(out)
			return nil
		},
	}

	var limit int
	records := &cobra.Command{
		Use:   "records [TEAM_ID]",
		Short: "Show the financial ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := teamArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			rows, err := newClient(apiBase).FinancialRecords(ctx, teamID, limit)
			if err != nil {
				return err
			}
			renderRecords(rows)
			return nil
		},
	}
	records.Flags().IntVar(&limit, "limit", 20, "number of entries")

	bankruptcies := &cobra.Command{
		Use:   "bankruptcies [TEAM_ID]",
		Short: "Show restructuring and game over history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := teamArg(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			rows, err := newClient(apiBase).BankruptcyEvents(ctx, teamID)
			if err != nil {
				return err
			}
			renderBankruptcies(rows)
			return nil
		},
	}

	team.AddCommand(create, show, roster, settle, records, bankruptcies)
	return team
}

func newPlayerCmd(apiBase *string) *cobra.Command {
	player := &cobra.Command{
		Use:   "player",
		Short: "Free agents, contracts and training",
	}
	var limit int
	freeAgents := &cobra.Command{
		Use:   "free-agents",
		Short: "List unattached players, best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			players, err := newClient(apiBase).FreeAgents(ctx, limit)
			if err != nil {
				return err
			}
			renderPlayers("FREE AGENTS", players)
			return nil
		},
	}
	freeAgents.Flags().IntVar(&limit, "limit", 20, "number of players")
	player.AddCommand(freeAgents)
	player.AddCommand(&cobra.Command{
		Use:   "sign TEAM_ID PLAYER_ID SALARY",
		Short: "Sign a free agent at a monthly salary",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, playerID, err := parseTeamPlayer(args)
			if err != nil {
				return err
			}
			salary, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid salary %q", args[2])
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			p, err := newClient(apiBase).SignFreeAgent(ctx, teamID, playerID, salary)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s signed at %s per month", p.Name, comma(p.Salary)))
			return nil
		},
	})
	player.AddCommand(&cobra.Command{
		Use:   "release TEAM_ID PLAYER_ID",
		Short: "Release a player to free agency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, playerID, err := parseTeamPlayer(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			if err := newClient(apiBase).ReleasePlayer(ctx, teamID, playerID); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Player #%d released", playerID))
			return nil
		},
	})
	player.AddCommand(&cobra.Command{
		Use:   "renew TEAM_ID PLAYER_ID SALARY",
		Short: "Renew a contract (stove league only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, playerID, err := parseTeamPlayer(args)
			if err != nil {
				return err
			}
			salary, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid salary %q", args[2])
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			p, err := newClient(apiBase).RenewContract(ctx, teamID, playerID, salary)
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s renewed at %s per month", p.Name, comma(p.Salary)))
			return nil
		},
	})
	player.AddCommand(&cobra.Command{
		Use:   "train TEAM_ID PLAYER_ID TRAINING",
		Short: "Run a training session (mechanics, laning, teamfight, vision, decision)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, playerID, err := parseTeamPlayer(args)
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).TrainPlayer(ctx, teamID, playerID, args[2])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Overall %d, condition %d, balance %s", out.Overall, out.Condition, comma(out.Balance)))
			return nil
		},
	})
	return player
}

// teamArg reads an optional TEAM_ID argument, defaulting to the profile team.
func teamArg(args []string) (int64, error) {
	if len(args) == 1 {
		return parseID("team", args[0])
	}
	if profile.TeamID <= 0 {
		return 0, fmt.Errorf("no team id given and no default team saved (lolfm profile set --team ID)")
	}
	return profile.TeamID, nil
}

func parseTeamPlayer(args []string) (int64, int64, error) {
	teamID, err := parseID("team", args[0])
	if err != nil {
		return 0, 0, err
	}
	playerID, err := parseID("player", args[1])
	if err != nil {
		return 0, 0, err
	}
	return teamID, playerID, nil
}

func newFacilityCmd(apiBase *string) *cobra.Command {
	facility := &cobra.Command{
		Use:   "facility",
		Short: "Facility upgrades",
	}
	facility.AddCommand(&cobra.Command{
		Use:   "upgrade TEAM_ID FACILITY",
		Short: "Upgrade stadium, dormitory, training_center or medical_center",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			out, err := newClient(apiBase).UpgradeFacility(ctx, teamID, args[1])
			if err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s now level %d (cost %s, balance %s)", out.Facility, out.Level, comma(out.Cost), comma(out.Balance)))
			return nil
		},
	})
	return facility
}

func newSponsorCmd(apiBase *string) *cobra.Command {
	sponsor := &cobra.Command{
		Use:   "sponsor",
		Short: "Sponsorship deals",
	}
	sponsor.AddCommand(&cobra.Command{
		Use:   "sign TEAM_ID SPONSOR SIGNING_AMOUNT",
		Short: "Sign a sponsor for a one-off payment (one active deal per team)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamID, err := parseID("team", args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[2])
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()
			if err := newClient(apiBase).SignSponsorship(ctx, teamID, args[1], amount); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("%s signed, %s credited", args[1], comma(amount)))
			return nil
		},
	})
	return sponsor
}

func newProfileCmd() *cobra.Command {
	prof := &cobra.Command{
		Use:   "profile",
		Short: "Saved defaults for the api url and team",
	}
	prof.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the saved profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api := profile.APIBaseURL
			if api == "" {
				api = "(unset)"
			}
			team := "(unset)"
			if profile.TeamID > 0 {
				team = fmt.Sprintf("#%d", profile.TeamID)
			}
			printInfo(fmt.Sprintf("api:  %s", api))
			printInfo(fmt.Sprintf("team: %s", team))
			return nil
		},
	})

	var api string
	var teamID int64
	set := &cobra.Command{
		Use:   "set",
		Short: "Save a default api url and/or team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			next := profile
			if cmd.Flags().Changed("api") {
				next.APIBaseURL = api
			}
			if cmd.Flags().Changed("team") {
				if teamID < 0 {
					return fmt.Errorf("invalid team id %d", teamID)
				}
				next.TeamID = teamID
			}
			if err := cl.SaveProfile(next); err != nil {
				return err
			}
			printSuccess("Profile saved")
			return nil
		},
	}
	set.Flags().StringVar(&api, "api", "", "default API base URL")
	set.Flags().Int64Var(&teamID, "team", 0, "default team id (0 clears it)")
	prof.AddCommand(set)

	prof.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the saved profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearProfile(); err != nil {
				return err
			}
			printSuccess("Profile cleared")
			return nil
		},
	})
	return prof
}
