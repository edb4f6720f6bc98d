package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a-marczewski/memocare/internal/app"
	"github.com/a-marczewski/memocare/internal/doctor"
	"github.com/a-marczewski/memocare/internal/memory"
	"github.com/a-marczewski/memocare/internal/settings"
	"github.com/a-marczewski/memocare/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "memocare",
	Short: "MemoCare - Your personal memory assistant",
	Long:  `MemoCare records short notes ("memories"), tags them, and answers free-text questions about them with a rule-based matcher. Everything stays on this machine.`,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(relateCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(promptsCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(completionCmd)
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate the autocompletion script for the specified shell",
	Long: `Generate the autocompletion script for memocare for the specified shell.
See each command's help for details on how to use the generated script.
	`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var err error
		switch args[0] {
		case "bash":
			err = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			err = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			err = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			err = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating completion script: %v\n", err)
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
}

var versionCheck bool

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
}

func runVersionCmd(a *app.App, cmd *cobra.Command, args []string) {
	fmt.Printf("memocare v%s\n", version.Version)
	if !versionCheck {
		return
	}
	latest, err := version.CheckForUpdates()
	if err != nil {
		fmt.Printf("Could not check for updates: %v\n", err)
		return
	}
	if latest == "" {
		fmt.Println("You are up to date.")
		return
	}
	fmt.Printf("A newer version is available: v%s\n", latest)
}

var rememberCmd = &cobra.Command{
	Use:   "remember [content]",
	Short: "Record a new memory",
	Long: `Record a new memory.

Memory types: general, relationship, medication, appointment, location
Priorities: low, medium, high

Examples:
  memocare remember "I parked my car in Lot B" --type location
  memocare remember "Took my medicine at 8 AM" -t medication -p high`,
	Args: cobra.MinimumNArgs(1),
}

var rememberType string
var rememberPriority string

func init() {
	rememberCmd.Flags().StringVarP(&rememberType, "type", "t", "general", "Memory type: general, relationship, medication, appointment, location")
	rememberCmd.Flags().StringVarP(&rememberPriority, "priority", "p", "medium", "Priority: low, medium, high")
}

func runRememberCmd(a *app.App, cmd *cobra.Command, args []string) {
	memType := memory.Type(rememberType)
	if !memType.IsValid() {
		fmt.Printf("❌ Invalid memory type: %s\n", rememberType)
		fmt.Println("Valid types: general, relationship, medication, appointment, location")
		os.Exit(1)
	}

	priority := memory.Priority(rememberPriority)
	if !priority.IsValid() {
		fmt.Printf("❌ Invalid priority: %s\n", rememberPriority)
		fmt.Println("Valid priorities: low, medium, high")
		os.Exit(1)
	}

	content := strings.Join(args, " ")
	mem, err := a.Session.Memories.Add(content, memType, memory.AddedBy(a.AddedBy()), priority)
	if err != nil {
		fmt.Printf("❌ Failed to record memory: %v\n", err)
		os.Exit(1)
	}

	a.Speak("Memory added: " + mem.Content)

	fmt.Println("✅ Memory recorded!")
	fmt.Printf("   Type: %s\n", mem.Type)
	fmt.Printf("   Priority: %s\n", mem.Priority)
	fmt.Printf("   Added by: %s\n", mem.AddedBy)
	if len(mem.Tags) > 0 {
		fmt.Printf("   Tags: %s\n", strings.Join(mem.Tags, ", "))
	}
}

var relateCmd = &cobra.Command{
	Use:   "relate [person1] [person2] [relationship]",
	Short: "Record a relationship between two people",
	Long: `Record a relationship fact.

Example:
  memocare relate Sam Alice brother    # Sam is Alice's brother`,
	Args: cobra.ExactArgs(3),
}

func runRelateCmd(a *app.App, cmd *cobra.Command, args []string) {
	fact, err := a.Session.Relationships.Add(args[0], args[1], args[2])
	if err != nil {
		fmt.Printf("❌ Failed to record relationship: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Recorded: %s is %s's %s\n", fact.Person1, fact.Person2, fact.Relationship)
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask about your memories",
	Args:  cobra.MinimumNArgs(1),
}

func runAskCmd(a *app.App, cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	printAnswer(a, query)
}

func printAnswer(a *app.App, query string) {
	result := a.Session.Engine.Query(query)

	a.Speak(result.Answer)

	fmt.Println(result.Answer)
	if result.Confidence > 0.5 {
		fmt.Printf("   (confidence %.1f)\n", result.Confidence)
	}
	if len(result.RelatedMemories) > 0 {
		fmt.Println("\nRelated memories:")
		for _, mem := range result.RelatedMemories {
			fmt.Printf("  - [%s] %s (%s)\n", mem.Type, mem.Content, mem.Timestamp.Format("2006-01-02"))
		}
	}
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent memories",
}

var recentLimit int

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 0, "Maximum memories to show (default from config)")
}

func runRecentCmd(a *app.App, cmd *cobra.Command, args []string) {
	memories := a.Session.Memories.All()

	limit := recentLimit
	if limit <= 0 {
		limit = a.Core.Config.RecentLimit
	}
	if len(memories) < limit {
		limit = len(memories)
	}

	fmt.Printf("Recent memories (showing %d of %d total):\n\n", limit, len(memories))
	for i := 0; i < limit; i++ {
		mem := memories[i]
		fmt.Printf("[%d] %s: %s\n", i+1, mem.Type, mem.Content)
		fmt.Printf("    Priority: %s | Added by: %s | Date: %s\n",
			mem.Priority, mem.AddedBy, mem.Timestamp.Format("2006-01-02 15:04:05"))
		if len(mem.Tags) > 0 {
			fmt.Printf("    Tags: %s\n", strings.Join(mem.Tags, ", "))
		}
		fmt.Println()
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show memory statistics",
}

func runStatsCmd(a *app.App, cmd *cobra.Command, args []string) {
	memories := a.Session.Memories.All()

	typeCounts := make(map[memory.Type]int)
	thisWeek := 0
	weekAgo := time.Now().AddDate(0, 0, -7)
	for _, mem := range memories {
		typeCounts[mem.Type]++
		if mem.Timestamp.After(weekAgo) {
			thisWeek++
		}
	}

	fmt.Printf("Total memories: %d\n", len(memories))
	fmt.Printf("This week: %d\n", thisWeek)
	fmt.Println("By type:")
	for _, memType := range []memory.Type{memory.General, memory.Relationship, memory.Medication, memory.Appointment, memory.Location} {
		if count := typeCounts[memType]; count > 0 {
			fmt.Printf("  %s: %d\n", memType, count)
		}
	}
	fmt.Printf("Relationships: %d\n", len(a.Session.Relationships.All()))
	fmt.Printf("Contacts: %d\n", len(a.Session.Contacts.All()))
	fmt.Printf("Cached queries: %d\n", a.Session.Cache.Len())
}

// quickPrompts are common things users forget, offered as one-tap questions.
var quickPrompts = []string{
	"Did I take my medicine today?",
	"Where did I park my car?",
	"What time is my appointment?",
	"Did I lock the door?",
	"Who called me today?",
	"What's my schedule today?",
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Show quick questions, or ask one by number",
}

var promptsAsk int

func init() {
	promptsCmd.Flags().IntVar(&promptsAsk, "ask", 0, "Ask quick question number N")
}

func runPromptsCmd(a *app.App, cmd *cobra.Command, args []string) {
	if promptsAsk > 0 {
		if promptsAsk > len(quickPrompts) {
			fmt.Printf("❌ No quick question %d (there are %d)\n", promptsAsk, len(quickPrompts))
			os.Exit(1)
		}
		query := quickPrompts[promptsAsk-1]
		fmt.Printf("Q: %s\n\n", query)
		printAnswer(a, query)
		return
	}

	fmt.Println("Quick questions:")
	for i, prompt := range quickPrompts {
		fmt.Printf("  [%d] %s\n", i+1, prompt)
	}
	fmt.Println("\nRun 'memocare prompts --ask N' to ask one.")
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage contacts",
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
}

var contactsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a contact",
	Args:  cobra.ExactArgs(1),
}

var contactPhone string
var contactEmail string
var contactRelationship string
var contactNotes string

func init() {
	contactsAddCmd.Flags().StringVar(&contactPhone, "phone", "", "Phone number")
	contactsAddCmd.Flags().StringVar(&contactEmail, "email", "", "Email address")
	contactsAddCmd.Flags().StringVar(&contactRelationship, "relationship", "", "Relationship to the user")
	contactsAddCmd.Flags().StringVar(&contactNotes, "notes", "", "Free-form notes")
	contactsCmd.AddCommand(contactsListCmd)
	contactsCmd.AddCommand(contactsAddCmd)
}

func runContactsListCmd(a *app.App, cmd *cobra.Command, args []string) {
	contacts := a.Session.Contacts.All()
	if len(contacts) == 0 {
		fmt.Println("No contacts yet. Add one with 'memocare contacts add'.")
		return
	}
	for _, contact := range contacts {
		fmt.Printf("%s", contact.Name)
		if contact.Relationship != "" {
			fmt.Printf(" (%s)", contact.Relationship)
		}
		fmt.Println()
		if contact.Phone != "" {
			fmt.Printf("    Phone: %s\n", contact.Phone)
		}
		if contact.Email != "" {
			fmt.Printf("    Email: %s\n", contact.Email)
		}
		if contact.Notes != "" {
			fmt.Printf("    Notes: %s\n", contact.Notes)
		}
	}
}

func runContactsAddCmd(a *app.App, cmd *cobra.Command, args []string) {
	contact, err := a.Session.Contacts.Add(memory.Contact{
		Name:         args[0],
		Phone:        contactPhone,
		Email:        contactEmail,
		Relationship: contactRelationship,
		Notes:        contactNotes,
	})
	if err != nil {
		fmt.Printf("❌ Failed to add contact: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Contact added: %s\n", contact.Name)
}

var settingsCmd = &cobra.Command{
	Use:   "settings [field] [value]",
	Short: "Show or change preferences",
	Long: `Show current preferences, or set one field.

Fields: fontSize (normal|large|extra-large), highContrast, voiceEnabled, caregiverMode

Examples:
  memocare settings
  memocare settings caregiverMode true`,
	Args: cobra.RangeArgs(0, 2),
}

func runSettingsCmd(a *app.App, cmd *cobra.Command, args []string) {
	switch len(args) {
	case 0:
		fmt.Printf("fontSize:      %s\n", a.Settings.FontSize)
		fmt.Printf("highContrast:  %s\n", strconv.FormatBool(a.Settings.HighContrast))
		fmt.Printf("voiceEnabled:  %s\n", strconv.FormatBool(a.Settings.VoiceEnabled))
		fmt.Printf("caregiverMode: %s\n", strconv.FormatBool(a.Settings.CaregiverMode))
	case 2:
		updated, err := settings.Update(a.Settings, args[0], args[1])
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		if err := settings.Save(a.Core.DB, updated); err != nil {
			a.Core.Logger.Error("Failed to persist settings", zap.Error(err))
			fmt.Printf("❌ Failed to save settings: %v\n", err)
			os.Exit(1)
		}
		a.Settings = updated
		fmt.Printf("✅ %s set to %s\n", args[0], args[1])
	default:
		fmt.Println("❌ Provide a field and a value, or no arguments to list settings.")
		os.Exit(1)
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostics on the MemoCare installation",
}

func runDoctorCmd(a *app.App, cmd *cobra.Command, args []string) {
	runner := doctor.NewRunner(a.Core.Config, a.Core.DB)
	diagnostics := runner.RunAll()
	diagnostics.PrintReport()
}

// newAppRunner creates a Cobra Run function closure with the app.App instance.
func newAppRunner(a *app.App, runFunc func(*app.App, *cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		runFunc(a, cmd, args)
	}
}

func main() {
	appInstance, err := app.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer appInstance.Close()

	versionCmd.Run = newAppRunner(appInstance, runVersionCmd)
	rememberCmd.Run = newAppRunner(appInstance, runRememberCmd)
	relateCmd.Run = newAppRunner(appInstance, runRelateCmd)
	askCmd.Run = newAppRunner(appInstance, runAskCmd)
	recentCmd.Run = newAppRunner(appInstance, runRecentCmd)
	statsCmd.Run = newAppRunner(appInstance, runStatsCmd)
	promptsCmd.Run = newAppRunner(appInstance, runPromptsCmd)
	contactsListCmd.Run = newAppRunner(appInstance, runContactsListCmd)
	contactsAddCmd.Run = newAppRunner(appInstance, runContactsAddCmd)
	settingsCmd.Run = newAppRunner(appInstance, runSettingsCmd)
	doctorCmd.Run = newAppRunner(appInstance, runDoctorCmd)

	if err := rootCmd.Execute(); err != nil {
		appInstance.Core.Logger.Error("Root command execution failed", zap.Error(err))
		os.Exit(1)
	}
}
