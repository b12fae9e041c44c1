package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jobtools/job-finder-mcp-server/internal/imaging"
	"github.com/jobtools/job-finder-mcp-server/internal/scrape"
	"github.com/jobtools/job-finder-mcp-server/internal/textutil"
	"github.com/jobtools/job-finder-mcp-server/internal/trivia"
	"github.com/mark3labs/mcp-go/mcp"
)

// Placeholder entries rendered in search results when the scrape fails.
// Clients render these inline, so they are list entries rather than errors.
const (
	searchFailedPlaceholder = "<error>Failed to perform search.</error>"
	noResultsPlaceholder    = "<error>No results found.</error>"
)

// richToolDescription is the structured tool description serialized as JSON
// into the MCP tool description field, so clients can surface when to use a
// tool and what it does to the world.
type richToolDescription struct {
	Description string  `json:"description"`
	UseWhen     string  `json:"use_when"`
	SideEffects *string `json:"side_effects"`
}

// JSON serializes the description. Marshalling a flat struct of strings
// cannot fail.
func (d richToolDescription) JSON() string {
	b, _ := json.Marshal(d)
	return string(b)
}

func sideEffects(s string) *string { return &s }

// resultInvalidParams reports a caller mistake as a tool error result.
func resultInvalidParams(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %s", message))
}

// resultInternalError reports a server-side failure as a tool error result.
func resultInternalError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("internal error: %v", err))
}

// RegisterTools registers all MCP tools with the server.
// This should be called after NewServer() and before Start().
func (s *Server) RegisterTools() error {
	s.logger.Info("Registering MCP tools")

	validateTool := mcp.NewTool(
		"validate",
		mcp.WithDescription("Returns the phone number that identifies the server owner."),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateTool)

	jobFinderDescription := richToolDescription{
		Description: "Smart job tool: analyze descriptions, fetch URLs, or search jobs based on free text.",
		UseWhen:     "Use this to evaluate job descriptions or search for jobs using freeform goals.",
		SideEffects: sideEffects("Returns insights, fetched job descriptions, or relevant job links."),
	}
	jobFinderTool := mcp.NewTool(
		"job_finder",
		mcp.WithDescription(jobFinderDescription.JSON()),
		mcp.WithString("user_goal",
			mcp.Required(),
			mcp.Description("The user's goal (can be a description, intent, or freeform query)"),
		),
		mcp.WithString("job_description",
			mcp.Description("Full job description text, if available."),
		),
		mcp.WithString("job_url",
			mcp.Description("A URL to fetch a job description from."),
		),
		mcp.WithBoolean("raw",
			mcp.Description("Return raw HTML content if True"),
		),
	)
	s.mcpServer.AddTool(jobFinderTool, s.handleJobFinderTool)

	blackAndWhiteDescription := richToolDescription{
		Description: "Convert an image to black and white and save it.",
		UseWhen:     "Use this tool when the user provides an image URL and requests it to be converted to black and white.",
		SideEffects: sideEffects("The image will be processed and saved in a black and white format."),
	}
	blackAndWhiteTool := mcp.NewTool(
		"make_img_black_and_white",
		mcp.WithDescription(blackAndWhiteDescription.JSON()),
		mcp.WithString("puch_image_data",
			mcp.Required(),
			mcp.Description("Base64-encoded image data to convert to black and white"),
		),
	)
	s.mcpServer.AddTool(blackAndWhiteTool, s.handleBlackAndWhiteTool)

	reverseTextDescription := richToolDescription{
		Description: "Reverse the characters in a given string.",
		UseWhen:     "Use when the user asks to see their text backwards.",
		SideEffects: nil,
	}
	reverseTextTool := mcp.NewTool(
		"reverse_text",
		mcp.WithDescription(reverseTextDescription.JSON()),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text string to reverse"),
		),
	)
	s.mcpServer.AddTool(reverseTextTool, s.handleReverseTextTool)

	emojiReplacerDescription := richToolDescription{
		Description: "Replace certain words in the text with fun emojis.",
		UseWhen:     "Use when the user wants to spice up their messages with emojis.",
		SideEffects: sideEffects("Returns the transformed text with emojis inserted."),
	}
	emojiReplacerTool := mcp.NewTool(
		"emoji_replacer",
		mcp.WithDescription(emojiReplacerDescription.JSON()),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Input text to replace words with emojis"),
		),
	)
	s.mcpServer.AddTool(emojiReplacerTool, s.handleEmojiReplacerTool)

	triviaTool := mcp.NewTool(
		"trivia",
		mcp.WithDescription("Play a trivia quiz game. Commands: 'trivia start' and 'trivia answer <A|B|C>'"),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Trivia command from user"),
		),
		mcp.WithString("session_id",
			mcp.Description("Identifier separating concurrent games. Defaults to a shared session."),
		),
	)
	s.mcpServer.AddTool(triviaTool, s.handleTriviaTool)

	s.logger.Info("MCP tools registered successfully")
	return nil
}

// handleValidateTool returns the configured owner phone number so the
// calling platform can verify who operates this server.
func (s *Server) handleValidateTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.config.MyNumber), nil
}

// handleJobFinderTool handles the job_finder tool invocation. The three
// modes are checked in order: direct description analysis, URL fetch, then
// freeform search when the goal reads like a search query.
func (s *Server) handleJobFinderTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userGoal, err := request.RequireString("user_goal")
	if err != nil {
		return resultInvalidParams("user_goal is required and must be a non-empty string"), nil
	}

	jobDescription := request.GetString("job_description", "")
	jobURL := request.GetString("job_url", "")
	raw := request.GetBool("raw", false)

	if jobDescription != "" {
		text := fmt.Sprintf(
			"📝 **Job Description Analysis**\n\n"+
				"---\n%s\n---\n\n"+
				"User Goal: **%s**\n\n"+
				"💡 Suggestions:\n- Tailor your resume.\n- Evaluate skill match.\n- Consider applying if relevant.",
			strings.TrimSpace(jobDescription), userGoal)
		return mcp.NewToolResultText(text), nil
	}

	if jobURL != "" {
		parsed, err := url.Parse(jobURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return resultInvalidParams(fmt.Sprintf("job_url is not a valid URL: %s", jobURL)), nil
		}

		result, err := s.fetcher.FetchPage(ctx, jobURL, raw)
		if err != nil {
			s.logger.Error("Failed to fetch job posting", "url", jobURL, "error", err)
			return resultInternalError(err), nil
		}

		text := fmt.Sprintf(
			"🔗 **Fetched Job Posting from URL**: %s\n\n"+
				"---\n%s\n---\n\n"+
				"User Goal: **%s**",
			jobURL, strings.TrimSpace(result.Body), userGoal)
		return mcp.NewToolResultText(text), nil
	}

	goal := strings.ToLower(userGoal)
	if strings.Contains(goal, "look for") || strings.Contains(goal, "find") {
		links, err := s.scraper.Search(ctx, userGoal)
		switch {
		case errors.Is(err, scrape.ErrNoResults):
			links = []string{noResultsPlaceholder}
		case err != nil:
			s.logger.Error("Job search failed", "goal", userGoal, "error", err)
			links = []string{searchFailedPlaceholder}
		}

		var content strings.Builder
		content.WriteString(fmt.Sprintf("🔍 **Search Results for**: _%s_\n\n", userGoal))
		for i, link := range links {
			if i > 0 {
				content.WriteString("\n")
			}
			content.WriteString(fmt.Sprintf("- %s", link))
		}
		return mcp.NewToolResultText(content.String()), nil
	}

	return resultInvalidParams("Please provide either a job description, a job URL, or a search query in user_goal."), nil
}

// handleBlackAndWhiteTool handles the make_img_black_and_white tool
// invocation, returning the converted image as base64-encoded PNG content.
func (s *Server) handleBlackAndWhiteTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imageData, err := request.RequireString("puch_image_data")
	if err != nil {
		return resultInvalidParams("puch_image_data is required and must be a non-empty string"), nil
	}

	converted, err := imaging.GrayscalePNG(imageData)
	if err != nil {
		s.logger.Error("Image conversion failed", "error", err)
		return resultInternalError(err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     converted,
				MIMEType: imaging.PNGMimeType,
			},
		},
	}, nil
}

// handleReverseTextTool handles the reverse_text tool invocation.
func (s *Server) handleReverseTextTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return resultInvalidParams("text is required and must be a non-empty string"), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reversed Text: %s", textutil.Reverse(text))), nil
}

// handleEmojiReplacerTool handles the emoji_replacer tool invocation.
func (s *Server) handleEmojiReplacerTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return resultInvalidParams("text is required and must be a non-empty string"), nil
	}

	return mcp.NewToolResultText(textutil.ReplaceEmojis(text)), nil
}

// handleTriviaTool handles the trivia tool invocation. Unknown and
// out-of-sequence commands come back as normal text replies from the
// engine; only store failures surface as tool errors.
func (s *Server) handleTriviaTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, err := request.RequireString("command")
	if err != nil {
		return resultInvalidParams("command is required and must be a non-empty string"), nil
	}

	sessionID := request.GetString("session_id", trivia.DefaultSessionID)

	reply, err := s.trivia.Handle(ctx, sessionID, command)
	if err != nil {
		s.logger.Error("Trivia command failed", "session_id", sessionID, "error", err)
		return resultInternalError(err), nil
	}

	return mcp.NewToolResultText(reply), nil
}
