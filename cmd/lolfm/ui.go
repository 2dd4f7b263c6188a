package main

import (
	"fmt"
	"strconv"
	"strings"

	"lolfm/internal/game"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func renderClock(c game.Clock) {
	accent.Println("\n== GAME CLOCK ==")
	fmt.Printf("Month:        %04d-%02d\n", c.Year, c.Month)
	if c.IsStoveLeague {
		warn.Println("Stove league: contracts open")
	} else {
		printInfo("Regular season")
	}
	fmt.Println()
}

func renderStandings(rows []game.Standing) {
	accent.Println("\n== STANDINGS ==")
	if len(rows) == 0 {
		printInfo("No standings yet. Generate a schedule first.")
		return
	}
	fmt.Printf("%-4s %-24s %4s %4s %4s %6s %5s %5s %5s\n", "#", "TEAM", "W", "D", "L", "PTS", "GF", "GA", "GD")
	for _, r := range rows {
		fmt.Printf("%-4d %-24s %4d %4d %4d %6d %5d %5d %5s\n",
			r.Rank,
			truncate(r.TeamName, 24),
			r.Wins,
			r.Draws,
			r.Losses,
			r.Points,
			r.GoalsFor,
			r.GoalsAgainst,
			colorizeInt(int64(r.GoalDifference)),
		)
	}
	fmt.Println()
}

func renderMatches(rows []game.MatchView) {
	accent.Println("\n== MATCHES ==")
	if len(rows) == 0 {
		printInfo("No fixtures.")
		return
	}
	fmt.Printf("%-6s %-10s %6s %6s %-9s %s\n", "ID", "DATE", "HOME", "AWAY", "STATUS", "SCORE")
	for _, m := range rows {
		score := "-"
		if m.Status == game.MatchCompleted {
			score = fmt.Sprintf("%d:%d", m.HomeScore, m.AwayScore)
		}
		fmt.Printf("%-6d %-10s %6d %6d %-9s %s\n", m.ID, m.MatchDate.Format("2006-01-02"), m.HomeTeamID, m.AwayTeamID, m.Status, score)
	}
	fmt.Println()
}

func renderMatchResult(r game.MatchResult) {
	accent.Printf("\n== MATCH #%d ==\n", r.MatchID)
	if r.AlreadyCompleted {
		printWarn("Already completed; showing the stored result.")
	} else {
		fmt.Printf("Power:        %.2f vs %.2f\n", r.HomePower, r.AwayPower)
		fmt.Printf("Home chance:  %.1f%%\n", r.HomeWinChance*100)
	}
	line := fmt.Sprintf("Team %d %d : %d Team %d", r.HomeTeamID, r.HomeScore, r.AwayScore, r.AwayTeamID)
	if r.HomeScore > r.AwayScore {
		printSuccess(line)
	} else {
		printInfo(line)
	}
	fmt.Println()
}

func renderTeam(t game.TeamView) {
	accent.Printf("\n== TEAM #%d %s ==\n", t.ID, t.Name)
	if t.IsGameOver {
		danger.Println("GAME OVER")
	}
	fmt.Printf("Money:        %s\n", colorizeInt(t.Money))
	fmt.Printf("Fans:         %s\n", comma(int64(t.Fans)))
	fmt.Printf("Reputation:   %d\n", t.Reputation)
	fmt.Printf("Awareness:    %d\n", t.Awareness)
	fmt.Printf("Roster:       %d players, payroll %s\n", t.RosterSize, comma(t.Payroll))
	fmt.Printf("Restructured: %d/%d\n", t.RestructuringCount, game.MaxRestructurings)
	if t.Sponsor != "" {
		fmt.Printf("Sponsor:      %s (%s signing)\n", t.Sponsor, comma(t.SponsorSigningAmount))
	}
	fmt.Println()
	accent.Println("Facilities")
	for _, ft := range game.FacilityTypes {
		level := t.Facilities[ft]
		fmt.Printf("%-16s L%d  upkeep %s\n", ft, level, comma(game.FacilityMaintenance(ft, level)))
	}
	fmt.Println()
}

func renderRoster(players []game.Player) {
	renderPlayers("ROSTER", players)
}

func renderPlayers(title string, players []game.Player) {
	accent.Printf("\n== %s ==\n", title)
	if len(players) == 0 {
		printInfo("No players.")
		return
	}
	fmt.Printf("%-6s %-20s %-8s %4s %4s %4s %4s %4s %4s %4s %12s\n", "ID", "NAME", "POS", "OVR", "MEC", "LAN", "TF", "VIS", "DEC", "CON", "SALARY")
	for _, p := range players {
		fmt.Printf("%-6d %-20s %-8s %4d %4d %4d %4d %4d %4d %4d %12s\n",
			p.ID,
			truncate(p.Name, 20),
			p.Position,
			p.Overall,
			p.Stats.Mechanics,
			p.Stats.Laning,
			p.Stats.Teamfight,
			p.Stats.Vision,
			p.Stats.Decision,
			p.Condition,
			comma(p.Salary),
		)
	}
	fmt.Println()
}

func renderSettlement(s game.Settlement) {
	accent.Printf("\n== SETTLEMENT team #%d ==\n", s.TeamID)
	switch {
	case s.Skipped:
		printWarn("Team is game over; nothing to settle.")
		return
	case s.AlreadySettled:
		printWarn("Already settled for this month.")
		return
	}
	for _, ft := range game.FacilityTypes {
		fmt.Printf("%-16s %14s\n", ft, comma(s.Maintenance.Facilities[ft]))
	}
	fmt.Printf("%-16s %14s\n", "SALARIES", comma(s.Maintenance.Salaries))
	fmt.Printf("%-16s %14s\n", "TOTAL", comma(s.Maintenance.Total))
	fmt.Printf("Balance:        %s -> %s\n", comma(s.BalanceBefore), colorizeInt(s.Balance))
	if plan := s.Insolvency; plan != nil {
		if plan.Action == game.ActionGameOver {
			danger.Println("Insolvent with no restructurings left: GAME OVER")
		} else {
			warn.Printf("Restructured (%d/%d): released %d players, debt forgiven %s\n",
				plan.RestructuringCount, game.MaxRestructurings, len(plan.Released), comma(plan.DebtForgiven))
		}
	}
	fmt.Println()
}

func renderRecords(rows []game.FinancialRecord) {
	accent.Println("\n== LEDGER ==")
	if len(rows) == 0 {
		printInfo("No entries.")
		return
	}
	fmt.Printf("%-8s %-17s %-18s %14s %s\n", "ID", "WHEN", "TYPE", "AMOUNT", "DESCRIPTION")
	for _, r := range rows {
		fmt.Printf("%-8d %-17s %-18s %14s %s\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.RecordType, comma(r.Amount), truncate(r.Description, 40))
	}
	fmt.Println()
}

func renderBankruptcies(rows []game.BankruptcyEvent) {
	accent.Println("\n== BANKRUPTCY HISTORY ==")
	if len(rows) == 0 {
		printSuccess("Never insolvent.")
		return
	}
	for _, e := range rows {
		line := fmt.Sprintf("%s  %-13s salary saved %s, debt forgiven %s (count %d)",
			e.CreatedAt.Local().Format("2006-01-02"), e.EventType, comma(e.SalarySaved), comma(e.DebtForgiven), e.RestructuringCount)
		if e.EventType == string(game.ActionGameOver) {
			danger.Println(line)
		} else {
			warn.Println(line)
		}
	}
	fmt.Println()
}

func colorizeInt(v int64) string {
	text := comma(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func comma(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
