package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"docflow/internal/app"
	"docflow/internal/config"
	"docflow/internal/docflow"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by the defaults.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// principal builds the caller from the --user and --role flags.
func principal(cmd *cobra.Command) (docflow.Principal, error) {
	user, _ := cmd.Flags().GetString("user")
	rawRoles, _ := cmd.Flags().GetStringSlice("role")

	p := docflow.Principal{UserID: user}
	for _, r := range rawRoles {
		role, err := docflow.ParseRole(r)
		if err != nil {
			return docflow.Principal{}, err
		}
		p.Roles = append(p.Roles, role)
	}
	return p, nil
}

// newApp reads the config and creates a DocflowApp. The caller must defer
// app.Close(). needsKey unlocks the private key so encrypted files can be
// read.
func newApp(cmd *cobra.Command, operation string, needsKey bool) (*app.DocflowApp, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := principal(cmd)
	if err != nil {
		return nil, err
	}

	opts := app.Options{Operation: operation, Principal: p, LogLevel: slog.LevelInfo}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts.LogLevel = slog.LevelDebug
	}
	if needsKey && cfg.Encryption.Type == "age" {
		opts.Passphrase = func() (string, error) { return readPassphrase(false) }
	} else if needsKey {
		opts.Passphrase = func() (string, error) { return "", nil }
	}

	a, err := app.NewDocflowApp(cmd.Context(), cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func listFilter(cmd *cobra.Command) (docflow.ListFilter, error) {
	var f docflow.ListFilter
	if s, _ := cmd.Flags().GetString("status"); s != "" {
		st, err := docflow.ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	if g, _ := cmd.Flags().GetString("group-type"); g != "" {
		gt, err := docflow.ParseGroupType(g)
		if err != nil {
			return f, err
		}
		f.GroupType = gt
	}
	f.Stage, _ = cmd.Flags().GetString("stage")
	return f, nil
}

func printDocument(d *docflow.Document) {
	group := d.GroupID
	if group == "" {
		group = "-"
	}
	fmt.Printf("%s  %-12s  v%-3d  %-12s  %-10s  %s  %s\n",
		d.ID, d.Status, d.Version, d.StageCode, d.RecipientID, group, d.Title)
}

var rootCmd = &cobra.Command{
	Use:          "docflow",
	Short:        "Contract document workflow",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		instanceID := uuid.New().String()
		cfg := config.NewConfig(instanceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", instanceID)
		fmt.Printf("Base Dir:    %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Instance ID: %s\n", cfg.InstanceID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Database:    %s\n", cfg.Database.Type)
		fmt.Printf("Blob Store:  %s\n", cfg.BlobStore.Type)
		fmt.Printf("Encryption:  %s\n", cfg.Encryption.Type)
		fmt.Printf("Bucket:      %s\n", cfg.Engine.DocumentsBucket)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the age key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		passphrase, err := readPassphrase(true)
		if err != nil {
			return err
		}
		if err := app.SetupKeys(cfg, passphrase); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}
		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s (passphrase protected)\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database schema",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		status, err := app.MigrateDatabase(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Schema at version %d\n", status.Version)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		status, err := app.DatabaseStatus(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		state := "up to date"
		switch {
		case status.Dirty:
			state = "dirty"
		case status.Version < status.Latest:
			state = "needs migration"
		}
		fmt.Printf("Version %d of %d (%s)\n", status.Version, status.Latest, state)
		return nil
	},
}

// doc command
var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Work with documents",
}

var docUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a document and send it to the recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc upload", false)
		if err != nil {
			return err
		}
		defer a.Close()

		in := app.UploadInput{Path: args[0]}
		in.ProjectID, _ = cmd.Flags().GetString("project")
		in.StageCode, _ = cmd.Flags().GetString("stage")
		in.RecipientID, _ = cmd.Flags().GetString("recipient")
		in.GroupID, _ = cmd.Flags().GetString("group")
		in.GroupType, _ = cmd.Flags().GetString("group-type")
		in.Title, _ = cmd.Flags().GetString("title")
		in.TemplateID, _ = cmd.Flags().GetString("template")

		doc, err := a.Upload(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s (version %d)\n", doc.ID, doc.Version)
		return nil
	},
}

var docVersionCmd = &cobra.Command{
	Use:   "version DOCUMENT_ID FILE",
	Short: "Upload a new version of a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc version", false)
		if err != nil {
			return err
		}
		defer a.Close()

		comment, _ := cmd.Flags().GetString("comment")
		doc, err := a.NewVersion(cmd.Context(), args[0], args[1], comment)
		if err != nil {
			return err
		}
		fmt.Printf("Document %s is now at version %d\n", doc.ID, doc.Version)
		return nil
	},
}

var docFileCmd = &cobra.Command{
	Use:   "file DOCUMENT_ID",
	Short: "Download the current file of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc file", true)
		if err != nil {
			return err
		}
		defer a.Close()

		markViewed, _ := cmd.Flags().GetBool("view")
		rc, err := a.OpenFile(cmd.Context(), args[0], markViewed)
		if err != nil {
			return err
		}
		defer rc.Close()

		out, _ := cmd.Flags().GetString("out")
		var w io.Writer = os.Stdout
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}
		if _, err := io.Copy(w, rc); err != nil {
			return fmt.Errorf("writing file: %w", err)
		}
		return nil
	},
}

var docSignCmd = &cobra.Command{
	Use:   "sign DOCUMENT_ID",
	Short: "Sign a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc sign", true)
		if err != nil {
			return err
		}
		defer a.Close()

		in := app.SignInput{DocumentID: args[0]}
		in.ConfirmationCode, _ = cmd.Flags().GetString("code")
		in.IP, _ = cmd.Flags().GetString("ip")
		in.UserAgent, _ = cmd.Flags().GetString("user-agent")

		sig, err := a.Sign(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Signed as %s, file hash %s\n", sig.SignerType, sig.FileHash)
		return nil
	},
}

var docRejectCmd = &cobra.Command{
	Use:   "reject DOCUMENT_ID",
	Short: "Reject a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc reject", false)
		if err != nil {
			return err
		}
		defer a.Close()

		comment, _ := cmd.Flags().GetString("comment")
		doc, err := a.Reject(cmd.Context(), args[0], comment)
		if err != nil {
			return err
		}
		fmt.Printf("Document %s %s\n", doc.ID, doc.Status)
		return nil
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete DOCUMENT_ID",
	Short: "Soft-delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc delete", false)
		if err != nil {
			return err
		}
		defer a.Close()

		comment, _ := cmd.Flags().GetString("comment")
		doc, err := a.Delete(cmd.Context(), args[0], comment)
		if err != nil {
			return err
		}
		fmt.Printf("Document %s %s\n", doc.ID, doc.Status)
		return nil
	},
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the documents of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc list", false)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := listFilter(cmd)
		if err != nil {
			return err
		}
		project, _ := cmd.Flags().GetString("project")
		forUser, _ := cmd.Flags().GetString("for")

		docs, err := a.List(cmd.Context(), project, forUser, f)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents.")
			return nil
		}
		for _, d := range docs {
			printDocument(d)
		}
		return nil
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show DOCUMENT_ID",
	Short: "Show a document with its versions, signatures and audit log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc show", false)
		if err != nil {
			return err
		}
		defer a.Close()

		d, err := a.Show(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printDocument(d.Document)
		if d.Group != nil {
			fmt.Printf("\nGroup: %s (%s)\n", d.Group.Title, d.Group.Type)
		}
		fmt.Println("\nVersions:")
		for _, v := range d.Versions {
			fmt.Printf("  v%-3d  %s  %s/%s  %s\n", v.Version, v.CreatedAt.Format("2006-01-02 15:04:05"), v.CreatedByType, v.CreatedByID, v.BlobID)
		}
		if len(d.Signatures) > 0 {
			fmt.Println("\nSignatures:")
			for _, s := range d.Signatures {
				fmt.Printf("  %-8s  %s  %s  %s\n", s.SignerType, s.SignerID, s.SignedAt.Format("2006-01-02 15:04:05"), s.FileHash)
			}
		}
		if len(d.Comments) > 0 {
			fmt.Println("\nComments:")
			for _, c := range d.Comments {
				fmt.Printf("  %s  %s/%s  %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"), c.AuthorType, c.AuthorID, c.Text)
			}
		}
		fmt.Println("\nAudit:")
		for _, e := range d.Audit {
			fmt.Printf("  #%-4d  %s  %-16s  %s/%s  %s\n", e.Seq, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.ActorType, e.ActorID, e.Payload)
		}
		return nil
	},
}

var docURLCmd = &cobra.Command{
	Use:   "url DOCUMENT_ID",
	Short: "Print a time-limited download URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "doc url", false)
		if err != nil {
			return err
		}
		defer a.Close()

		url, err := a.FileURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

// group command
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Work with document groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the document groups of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "group list", false)
		if err != nil {
			return err
		}
		defer a.Close()

		project, _ := cmd.Flags().GetString("project")
		groups, err := a.Groups(cmd.Context(), project)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No groups.")
			return nil
		}
		for _, g := range groups {
			root := g.RootDocumentID
			if root == "" {
				root = "-"
			}
			fmt.Printf("%s  %-22s  root:%s  %s\n", g.ID, g.Type, root, g.Title)
		}
		return nil
	},
}

// stage command
var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Work with project stages",
}

var stageStatusCmd = &cobra.Command{
	Use:   "status STAGE_CODE",
	Short: "Check whether every document of a stage is signed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "stage status", false)
		if err != nil {
			return err
		}
		defer a.Close()

		project, _ := cmd.Flags().GetString("project")
		r, err := a.StageStatus(cmd.Context(), project, args[0])
		if err != nil {
			return err
		}
		if r.Ready {
			fmt.Printf("Stage %s is ready (%d document(s) signed)\n", r.StageCode, len(r.Documents))
			return nil
		}
		fmt.Printf("Stage %s is blocked by %d unsigned document(s):\n", r.StageCode, len(r.Unsigned))
		for _, d := range r.Unsigned {
			printDocument(d)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("user", os.Getenv("USER"), "ID of the acting user")
	rootCmd.PersistentFlags().StringSlice("role", []string{"manager"}, "Roles of the acting user (client, manager, admin)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages")
	rootCmd.SetContext(context.Background())

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// keys and db subcommands
	keysCmd.AddCommand(keysInitCmd)
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)

	// doc subcommands
	docCmd.AddCommand(docUploadCmd, docVersionCmd, docFileCmd, docSignCmd, docRejectCmd, docDeleteCmd, docListCmd, docShowCmd, docURLCmd)

	docUploadCmd.Flags().String("project", "", "Project ID")
	docUploadCmd.Flags().String("stage", "", "Stage code")
	docUploadCmd.Flags().String("recipient", "", "Recipient user ID")
	docUploadCmd.Flags().String("group", "", "Existing group ID")
	docUploadCmd.Flags().String("group-type", "", "Group type, created on first use ("+groupTypes()+")")
	docUploadCmd.Flags().String("title", "", "Document title (defaults to the file name)")
	docUploadCmd.Flags().String("template", "", "Template ID the document was generated from")
	for _, f := range []string{"project", "stage", "recipient"} {
		docUploadCmd.MarkFlagRequired(f)
	}

	docVersionCmd.Flags().StringP("comment", "m", "", "Comment attached to the new version")
	docFileCmd.Flags().StringP("out", "o", "-", "Output file, - for stdout")
	docFileCmd.Flags().Bool("view", false, "Mark the document viewed when read by its recipient")
	docSignCmd.Flags().String("code", "", "Confirmation code")
	docSignCmd.Flags().String("ip", "", "Client IP recorded with the signature")
	docSignCmd.Flags().String("user-agent", "docflow-cli", "User agent recorded with the signature")
	docSignCmd.MarkFlagRequired("code")
	docRejectCmd.Flags().StringP("comment", "m", "", "Reason for the rejection")
	docDeleteCmd.Flags().StringP("comment", "m", "", "Reason for the deletion")

	docListCmd.Flags().String("project", "", "Project ID")
	docListCmd.Flags().String("for", "", "Only documents addressed to this user")
	docListCmd.Flags().String("status", "", "Only documents in this status (DELETED shows deleted documents)")
	docListCmd.Flags().String("stage", "", "Only documents of this stage")
	docListCmd.Flags().String("group-type", "", "Only documents in groups of this type")
	docListCmd.MarkFlagRequired("project")

	// group and stage subcommands
	groupCmd.AddCommand(groupListCmd)
	groupListCmd.Flags().String("project", "", "Project ID")
	groupListCmd.MarkFlagRequired("project")
	stageCmd.AddCommand(stageStatusCmd)
	stageStatusCmd.Flags().String("project", "", "Project ID")
	stageStatusCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(configCmd, keysCmd, dbCmd, docCmd, groupCmd, stageCmd)
}

func groupTypes() string {
	types := []docflow.GroupType{
		docflow.GroupMainContract, docflow.GroupAdditionalAgreement, docflow.GroupActs,
		docflow.GroupPhotoReports, docflow.GroupOther,
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = strings.ToLower(string(t))
	}
	return strings.Join(names, ", ")
}
