// Package protein classifies LINE text messages for the protein intake bot
// and builds the reply batch for each of them.
//
// Rules are evaluated in a fixed order and the first one that can handle
// the text wins:
//
//  1. protein comparison chart images
//  2. Inbody (body composition) images
//  3. introduction images
//  4. form links
//  5. free-text intake log ("<digits> ... 蛋白質")
//  6. greeting / body weight prompt
//  7. numeric fallback (weight formula, portion log, unit log, instructions)
//     or, for profiles without a formula, an echo of the received text
//
// Classification is total: every input, including the empty string,
// produces a non-empty Batch.
package protein

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// Rule names reported by Match.
const (
	RuleComparison   = "comparison"
	RuleInbody       = "inbody"
	RuleIntro        = "intro"
	RuleForm         = "form"
	RuleIntakeLog    = "intake_log"
	RuleGreeting     = "greeting"
	RuleWeight       = "weight"
	RulePortionLog   = "portion_log"
	RuleUnitLog      = "unit_log"
	RuleInstructions = "instructions"
	RuleEcho         = "echo"
)

// numberPattern extracts the first decimal number token.
var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// floorTolerance absorbs binary float error in weight*GramsPerKg before flooring.
const floorTolerance = 1e-9

// input is a message as seen by the rules.
type input struct {
	raw  string // trimmed original text
	text string // trimmed, width-folded and case-folded text
}

// rule is one step of the ordered evaluation.
type rule interface {
	CanHandle(in input) bool
	Handle(in input) (string, Batch)
}

// Classifier evaluates a compiled Profile. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	profile string
	rules   []rule
}

// NewClassifier compiles the profile into its ordered rule list.
func NewClassifier(p Profile) (*Classifier, error) {
	c := &Classifier{profile: p.Name}

	c.add(newKeywordImages(RuleComparison, p.Comparison))
	c.add(newKeywordImages(RuleInbody, p.Inbody))
	c.add(newKeywordImages(RuleIntro, p.Intro))
	if len(p.Forms) > 0 {
		c.add(newFormRule(p.Forms))
	}
	if p.IntakeLog.Pattern != "" {
		re, err := regexp.Compile(p.IntakeLog.Pattern)
		if err != nil {
			return nil, fmt.Errorf("intake log pattern: %w", err)
		}
		c.add(&intakeLogRule{pattern: re, reply: p.IntakeLog.Reply})
	}
	if len(p.Greeting.Triggers) > 0 {
		c.add(&greetingRule{triggers: normalizeAll(p.Greeting.Triggers), reply: p.Greeting.Reply})
	}

	switch {
	case p.Formula != nil:
		f := *p.Formula
		if f.GramsPerKg <= 0 || f.GramsPerPortion <= 0 || f.WeightThreshold <= 0 {
			return nil, fmt.Errorf("formula constants must be positive: %+v", f)
		}
		c.add(&numericRule{formula: f, units: normalizeAll(f.Units)})
	case p.Echo != "":
		c.add(&echoRule{template: p.Echo})
	default:
		return nil, errors.New("profile needs a formula or an echo template")
	}

	return c, nil
}

func (c *Classifier) add(r rule) {
	if r != nil {
		c.rules = append(c.rules, r)
	}
}

// Profile returns the name of the compiled profile.
func (c *Classifier) Profile() string {
	return c.profile
}

// Classify returns the replies for text.
func (c *Classifier) Classify(text string) Batch {
	_, batch := c.Match(text)
	return batch
}

// Match returns the name of the rule that handled text and its replies.
func (c *Classifier) Match(text string) (string, Batch) {
	raw := strings.TrimSpace(text)
	in := input{raw: raw, text: normalize(raw)}

	for _, r := range c.rules {
		if r.CanHandle(in) {
			return r.Handle(in)
		}
	}

	// Only reachable with a hand-built Classifier; NewClassifier always
	// ends the list with a catch-all rule.
	return RuleEcho, textBatch(raw)
}

// normalize trims and folds text so full-width and upper-case ASCII
// compare equal to their plain lower-case forms. CJK text is unchanged.
func normalize(s string) string {
	s = width.Fold.String(strings.TrimSpace(s))
	return strings.TrimSpace(cases.Fold().String(s))
}

func normalizeAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

type keywordImages struct {
	name     string
	triggers []string
	images   []string
}

func newKeywordImages(name string, r ImageRule) rule {
	triggers := normalizeAll(r.Triggers)
	if len(triggers) == 0 || len(r.Images) == 0 {
		return nil
	}
	return &keywordImages{name: name, triggers: triggers, images: r.Images}
}

func (r *keywordImages) CanHandle(in input) bool {
	return containsAny(in.text, r.triggers)
}

func (r *keywordImages) Handle(input) (string, Batch) {
	return r.name, imageBatch(r.images)
}

type compiledForm struct {
	triggers []string
	title    string
	url      string
}

type formRule struct {
	forms []compiledForm
}

func newFormRule(links []FormLink) rule {
	r := &formRule{}
	for _, l := range links {
		if triggers := normalizeAll(l.Triggers); len(triggers) > 0 {
			r.forms = append(r.forms, compiledForm{triggers: triggers, title: l.Title, url: l.URL})
		}
	}
	if len(r.forms) == 0 {
		return nil
	}
	return r
}

func (r *formRule) CanHandle(in input) bool {
	for _, f := range r.forms {
		if containsAny(in.text, f.triggers) {
			return true
		}
	}
	return false
}

// Handle lists every form whose triggers appear in the text.
func (r *formRule) Handle(in input) (string, Batch) {
	parts := make([]string, 0, len(r.forms))
	for _, f := range r.forms {
		if containsAny(in.text, f.triggers) {
			parts = append(parts, f.title+"\n"+f.url)
		}
	}
	return RuleForm, textBatch(strings.Join(parts, "\n\n"))
}

type intakeLogRule struct {
	pattern *regexp.Regexp
	reply   string
}

func (r *intakeLogRule) CanHandle(in input) bool {
	return r.pattern.MatchString(in.text)
}

func (r *intakeLogRule) Handle(in input) (string, Batch) {
	body := strings.NewReplacer("{number}", numberPattern.FindString(in.text)).Replace(r.reply)
	return RuleIntakeLog, textBatch(body)
}

type greetingRule struct {
	triggers []string
	reply    string
}

func (r *greetingRule) CanHandle(in input) bool {
	return containsAny(in.text, r.triggers)
}

func (r *greetingRule) Handle(input) (string, Batch) {
	return RuleGreeting, textBatch(r.reply)
}

type numericRule struct {
	formula Formula
	units   []string
}

func (r *numericRule) CanHandle(input) bool { return true }

func (r *numericRule) Handle(in input) (string, Batch) {
	token := numberPattern.FindString(in.text)
	if token == "" {
		return RuleInstructions, textBatch(r.formula.Instructions)
	}

	if in.text == token {
		value, err := strconv.ParseFloat(token, 64)
		if err == nil {
			if value >= r.formula.WeightThreshold {
				portions := Portions(value, r.formula.GramsPerKg, r.formula.GramsPerPortion)
				body := strings.NewReplacer(
					"{weight}", token,
					"{portions}", strconv.Itoa(portions),
				).Replace(r.formula.Recommendation)
				return RuleWeight, textBatch(body)
			}
			body := strings.NewReplacer("{portions}", token).Replace(r.formula.PortionLogged)
			return RulePortionLog, textBatch(body)
		}
	}

	if containsAny(in.text, r.units) {
		return RuleUnitLog, textBatch(r.formula.IntakeLogged)
	}

	return RuleInstructions, textBatch(r.formula.Instructions)
}

// Portions returns floor(weightKg * gramsPerKg / gramsPerPortion),
// truncating rather than rounding. Results beyond int saturate at
// math.MaxInt; NaN and non-positive results are 0.
func Portions(weightKg, gramsPerKg, gramsPerPortion float64) int {
	if gramsPerPortion <= 0 {
		return 0
	}
	v := math.Floor(weightKg*gramsPerKg/gramsPerPortion + floorTolerance)
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	}
	return int(v)
}

type echoRule struct {
	template string
}

func (r *echoRule) CanHandle(input) bool { return true }

func (r *echoRule) Handle(in input) (string, Batch) {
	return RuleEcho, textBatch(strings.NewReplacer("{text}", in.raw).Replace(r.template))
}
