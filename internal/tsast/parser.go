package tsast

// parser turns the token stream into the node tree. It is not a full
// TypeScript grammar: it recognizes imports, class/namespace/function
// declarations, parameter lists and call expressions, and skips everything
// else with bracket balancing.
type parser struct {
	tree *Tree
	toks []token
	pos  int
}

// Identifiers that can never head a call expression.
var callHeadBlacklist = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "new": true, "function": true, "typeof": true,
	"delete": true, "void": true, "in": true, "of": true, "do": true,
	"else": true, "case": true, "throw": true, "await": true, "yield": true,
	"super": true, "const": true, "let": true, "var": true, "class": true,
	"import": true, "export": true, "from": true, "as": true,
	"instanceof": true,
}

var modifierKinds = map[string]string{
	"export":    KindExportKeyword,
	"declare":   KindDeclareKeyword,
	"abstract":  KindAbstractKeyword,
	"async":     KindAsyncKeyword,
	"public":    KindPublicKeyword,
	"private":   KindPrivateKeyword,
	"protected": KindProtectedKeyword,
	"static":    KindStaticKeyword,
	"readonly":  KindReadonlyKeyword,
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) peek() token { return p.peekAt(1) }

func (p *parser) peekAt(k int) token {
	if p.pos+k >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+k]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) atPunct(s string) bool {
	t := p.cur()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) atIdent(s string) bool {
	t := p.cur()
	return t.kind == tokIdent && t.text == s
}

func (p *parser) parseSourceFile() *Node {
	root := &Node{Kind: KindSourceFile, Start: 0, End: len(p.tree.Source), tree: p.tree}
	p.parseStatements(root, false)
	return root
}

// parseStatements reads declarations and expression statements into parent.
// When inBlock is true it stops (without consuming) at the matching '}'.
func (p *parser) parseStatements(parent *Node, inBlock bool) {
	pendingNew := false
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if inBlock && p.atPunct("}") {
			return
		}

		if t.kind == tokIdent {
			switch t.text {
			case "import":
				p.parseImport(parent)
				pendingNew = false
				continue
			case "class", "namespace", "module", "function", "interface", "enum", "type",
				"export", "declare", "abstract", "async":
				if p.tryDeclaration(parent) {
					pendingNew = false
					continue
				}
			case "new":
				p.advance()
				pendingNew = true
				continue
			}
			if !callHeadBlacklist[t.text] || t.text == "this" {
				p.scanCallChain(parent, pendingNew)
				pendingNew = false
				continue
			}
			p.advance()
			pendingNew = false
			continue
		}

		switch {
		case p.atPunct("{"):
			p.advance()
			p.parseStatements(parent, true)
			if p.atPunct("}") {
				p.advance()
			}
		case p.atPunct("("):
			p.advance()
			p.scanBalanced(parent, ")")
			if p.atPunct(")") {
				p.advance()
			}
		case p.atPunct("["):
			p.advance()
			p.scanBalanced(parent, "]")
			if p.atPunct("]") {
				p.advance()
			}
		case !inBlock && p.atPunct("}"):
			p.advance()
		default:
			p.advance()
		}
		pendingNew = false
	}
}

// tryDeclaration attempts to read a declaration (with leading modifiers)
// starting at the current token. It returns false, with the position
// unchanged, when the tokens do not begin one.
func (p *parser) tryDeclaration(parent *Node) bool {
	save := p.pos

	var mods []token
	for p.cur().kind == tokIdent {
		switch p.cur().text {
		case "export", "declare", "abstract", "async":
			mods = append(mods, p.advance())
			if p.atIdent("default") {
				mods = append(mods, p.advance())
			}
			continue
		}
		break
	}

	t := p.cur()
	if t.kind != tokIdent {
		p.pos = save
		return false
	}
	switch t.text {
	case "class":
		p.parseClass(parent, mods)
		return true
	case "function":
		p.parseFunction(parent, mods)
		return true
	case "namespace", "module":
		if p.peek().kind == tokIdent {
			p.parseModule(parent, mods)
			return true
		}
	case "interface", "enum":
		p.skipBracedDeclaration()
		return true
	case "type":
		if p.peek().kind == tokIdent {
			p.skipToSemicolon()
			return true
		}
	}
	p.pos = save
	return false
}

func (p *parser) parseImport(parent *Node) {
	start := p.advance() // "import"
	node := parent.newChild(KindImportDeclaration, start.start, start.end)
	for {
		t := p.cur()
		switch {
		case t.kind == tokEOF:
			return
		case t.kind == tokString:
			// module specifier; span excludes the quotes so @value
			// predicates compare against the bare location
			node.newChild(KindStringLiteral, t.start+1, t.end-1)
			node.End = t.end
			p.advance()
			if p.atPunct(";") {
				node.End = p.advance().end
			}
			return
		case t.kind == tokIdent && t.text == "from":
			p.advance()
		case t.kind == tokIdent && t.text == "as":
			p.advance()
		case t.kind == tokIdent:
			node.newChild(KindIdentifier, t.start, t.end)
			node.End = t.end
			p.advance()
		case t.kind == tokPunct && (t.text == "{" || t.text == "}" || t.text == "," || t.text == "*"):
			node.End = t.end
			p.advance()
		case t.kind == tokPunct && t.text == ";":
			node.End = p.advance().end
			return
		default:
			return
		}
	}
}

func (p *parser) parseClass(parent *Node, mods []token) {
	start := p.cur().start
	if len(mods) > 0 {
		start = mods[0].start
	}
	node := parent.newChild(KindClassDeclaration, start, start)
	attachModifiers(node, mods)
	p.advance() // "class"
	if p.cur().kind == tokIdent {
		name := p.advance()
		node.newChild(KindIdentifier, name.start, name.end)
	}
	// heritage clause
	for !p.atPunct("{") && p.cur().kind != tokEOF {
		p.advance()
	}
	if p.atPunct("{") {
		p.advance()
		p.parseMembers(node)
	}
	if p.atPunct("}") {
		node.End = p.advance().end
	} else {
		node.End = p.cur().start
	}
}

func (p *parser) parseMembers(class *Node) {
	for {
		t := p.cur()
		if t.kind == tokEOF || p.atPunct("}") {
			return
		}
		if p.atPunct(";") {
			p.advance()
			continue
		}
		for p.atPunct("@") {
			p.skipDecorator()
		}

		save := p.pos
		var mods []token
		for p.cur().kind == tokIdent {
			text := p.cur().text
			if _, ok := modifierKinds[text]; ok && (p.peek().kind == tokIdent || p.peek().kind == tokPunct) {
				// a modifier must be followed by more member tokens, not "("
				if p.peek().kind == tokPunct && p.peek().text == "(" {
					break
				}
				mods = append(mods, p.advance())
				continue
			}
			break
		}

		// accessor keyword before the name
		if (p.atIdent("get") || p.atIdent("set")) && p.peek().kind == tokIdent {
			p.advance()
		}

		name := p.cur()
		if name.kind == tokIdent && p.isMethodAhead() {
			p.advance()
			p.parseCallable(class, KindMethodDeclaration, mods, name)
			continue
		}

		// property or unrecognized member: skip to ";" at depth 0
		p.pos = save
		p.skipMember()
	}
}

// isMethodAhead reports whether the identifier at the cursor starts a method:
// the name is followed by "(" or by a balanced type-parameter list then "(".
func (p *parser) isMethodAhead() bool {
	if p.peek().kind == tokPunct && p.peek().text == "(" {
		return true
	}
	if p.peek().kind == tokPunct && p.peek().text == "<" {
		depth := 0
		for k := 1; ; k++ {
			t := p.peekAt(k)
			if t.kind == tokEOF {
				return false
			}
			if t.kind != tokPunct {
				continue
			}
			switch t.text {
			case "<":
				depth++
			case ">":
				depth--
				if depth == 0 {
					next := p.peekAt(k + 1)
					return next.kind == tokPunct && next.text == "("
				}
			case "{", "}", ";":
				return false
			}
		}
	}
	return false
}

// skipDecorator consumes an "@Name", "@Name.path" or "@Name(...)" member
// decorator so the member itself parses normally.
func (p *parser) skipDecorator() {
	p.advance() // "@"
	if p.cur().kind != tokIdent {
		return
	}
	p.advance()
	for p.atPunct(".") && p.peek().kind == tokIdent {
		p.advance()
		p.advance()
	}
	if !p.atPunct("(") {
		return
	}
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "{", "[":
				depth++
			case ")", "}", "]":
				depth--
				if depth == 0 {
					p.advance()
					return
				}
			}
		}
		p.advance()
	}
}

// skipMember consumes a non-method class member up to ";" (or the class
// closing brace), balancing nested brackets.
func (p *parser) skipMember() {
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "{", "[":
				depth++
			case ")", "]":
				depth--
			case "}":
				if depth == 0 {
					return
				}
				depth--
			case ";":
				if depth == 0 {
					p.advance()
					return
				}
			}
		}
		p.advance()
	}
}

func (p *parser) parseFunction(parent *Node, mods []token) {
	start := p.cur().start
	if len(mods) > 0 {
		start = mods[0].start
	}
	p.advance() // "function"
	name := p.cur()
	if name.kind != tokIdent {
		return
	}
	p.advance()
	node := parent.newChild(KindFunctionDeclaration, start, start)
	attachModifiers(node, mods)
	node.newChild(KindIdentifier, name.start, name.end)
	p.finishCallable(node)
}

// parseCallable builds a method declaration whose name token has already
// been consumed.
func (p *parser) parseCallable(parent *Node, kind string, mods []token, name token) {
	start := name.start
	if len(mods) > 0 {
		start = mods[0].start
	}
	node := parent.newChild(kind, start, start)
	attachModifiers(node, mods)
	node.newChild(KindIdentifier, name.start, name.end)
	p.finishCallable(node)
}

// finishCallable parses generics, the parameter list, the return type and
// the body of a function or method declaration.
func (p *parser) finishCallable(node *Node) {
	if p.atPunct("<") {
		p.skipAngles()
	}
	if !p.atPunct("(") {
		node.End = p.cur().start
		return
	}
	open := p.advance()
	node.newChild(KindOpenParenToken, open.start, open.end)
	p.parseParameters(node)
	if p.atPunct(")") {
		cl := p.advance()
		node.newChild(KindCloseParenToken, cl.start, cl.end)
	}
	if p.atPunct(":") {
		p.skipType("{", ";")
	}
	switch {
	case p.atPunct("{"):
		openBrace := p.advance()
		block := node.newChild(KindBlock, openBrace.start, openBrace.end)
		p.scanBalanced(block, "}")
		if p.atPunct("}") {
			block.End = p.advance().end
		}
		node.End = block.End
	case p.atPunct(";"):
		node.End = p.advance().end
	default:
		node.End = p.cur().start
	}
}

// parseParameters reads the parameter list between the paren tokens,
// attaching one Parameter child per entry.
func (p *parser) parseParameters(decl *Node) {
	for {
		if p.atPunct(")") || p.cur().kind == tokEOF {
			return
		}
		if p.atPunct(",") {
			p.advance()
			continue
		}

		startPos := p.pos
		start := p.cur().start
		param := decl.newChild(KindParameter, start, start)

		for p.cur().kind == tokIdent {
			if k, ok := modifierKinds[p.cur().text]; ok && p.peek().kind == tokIdent {
				m := p.advance()
				param.newChild(k, m.start, m.end)
				continue
			}
			break
		}

		switch {
		case p.cur().kind == tokIdent:
			name := p.advance()
			param.newChild(KindIdentifier, name.start, name.end)
		case p.atPunct("{") || p.atPunct("["):
			closer := "}"
			if p.atPunct("[") {
				closer = "]"
			}
			first := p.advance()
			pat := param.newChild(KindBindingPattern, first.start, first.end)
			depth := 1
			for depth > 0 && p.cur().kind != tokEOF {
				t := p.advance()
				if t.kind == tokPunct {
					switch t.text {
					case "{", "[":
						depth++
					case closer:
						depth--
					}
				}
				pat.End = t.end
			}
		case p.atPunct("."):
			// rest parameter "...name"
			for p.atPunct(".") {
				p.advance()
			}
			if p.cur().kind == tokIdent {
				name := p.advance()
				param.newChild(KindIdentifier, name.start, name.end)
			}
		}

		if p.atPunct("?") {
			p.advance()
		}
		if p.atPunct(":") {
			p.advance()
			typStart, typEnd := p.spanType(",", ")")
			if typEnd > typStart {
				param.newChild(KindTypeReference, typStart, typEnd)
			}
		}
		if p.atPunct("=") {
			p.advance()
			p.skipValue(",", ")")
		}
		if len(param.children) > 0 {
			param.End = param.children[len(param.children)-1].End
		} else {
			param.End = p.cur().start
		}
		if p.pos == startPos {
			// unrecognized parameter form; make progress
			p.advance()
		}
	}
}

// spanType consumes a type annotation and returns its byte span. It stops
// at either stop punct at bracket depth 0.
func (p *parser) spanType(stopA, stopB string) (int, int) {
	start := p.cur().start
	end := start
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return start, end
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "{", "[", "<":
				depth++
			case ")", "}", "]", ">":
				if depth == 0 && (t.text == stopA || t.text == stopB) {
					return start, end
				}
				depth--
			case ",", "=":
				if depth == 0 && (t.text == stopA || t.text == stopB || t.text == "=") {
					return start, end
				}
			}
		}
		end = t.end
		p.advance()
	}
}

// skipValue consumes a default-value expression up to either stop punct at
// bracket depth 0.
func (p *parser) skipValue(stopA, stopB string) {
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "{", "[":
				depth++
			case ")", "}", "]":
				if depth == 0 {
					return
				}
				depth--
			case ",":
				if depth == 0 && (stopA == "," || stopB == ",") {
					return
				}
			}
		}
		p.advance()
	}
}

// skipType consumes a return-type annotation, stopping (without consuming)
// at stopA or stopB at bracket depth 0.
func (p *parser) skipType(stopA, stopB string) {
	p.advance() // ":"
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "<":
				depth++
			case ")", "]", ">":
				depth--
			case stopA, stopB:
				if depth <= 0 {
					return
				}
			}
		}
		p.advance()
	}
}

func (p *parser) skipAngles() {
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "<":
				depth++
			case ">":
				depth--
				if depth == 0 {
					p.advance()
					return
				}
			case "{", ";":
				return
			}
		}
		p.advance()
	}
}

func (p *parser) parseModule(parent *Node, mods []token) {
	start := p.cur().start
	if len(mods) > 0 {
		start = mods[0].start
	}
	p.advance() // "namespace" | "module"
	name := p.advance()
	node := parent.newChild(KindModuleDeclaration, start, start)
	attachModifiers(node, mods)
	node.newChild(KindIdentifier, name.start, name.end)
	for !p.atPunct("{") && p.cur().kind != tokEOF {
		p.advance()
	}
	if p.atPunct("{") {
		open := p.advance()
		block := node.newChild(KindModuleBlock, open.start, open.end)
		p.parseStatements(block, true)
		if p.atPunct("}") {
			block.End = p.advance().end
		}
		node.End = block.End
	} else {
		node.End = p.cur().start
	}
}

func (p *parser) skipBracedDeclaration() {
	for !p.atPunct("{") && p.cur().kind != tokEOF {
		p.advance()
	}
	if !p.atPunct("{") {
		return
	}
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "{":
				depth++
			case "}":
				depth--
				if depth == 0 {
					p.advance()
					return
				}
			}
		}
		p.advance()
	}
}

func (p *parser) skipToSemicolon() {
	depth := 0
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case "{", "(", "[":
				depth++
			case ")", "]":
				depth--
			case "}":
				if depth == 0 {
					return
				}
				depth--
			case ";":
				if depth == 0 {
					p.advance()
					return
				}
			}
		}
		p.advance()
	}
}

// scanBalanced walks expression tokens until the given closer at depth 0,
// attaching any call expressions it finds to parent. The closer itself is
// left for the caller.
func (p *parser) scanBalanced(parent *Node, closer string) {
	pendingNew := false
	for {
		t := p.cur()
		if t.kind == tokEOF {
			return
		}
		if t.kind == tokPunct {
			switch t.text {
			case closer:
				return
			case "(":
				p.advance()
				p.scanBalanced(parent, ")")
				if p.atPunct(")") {
					p.advance()
				}
				pendingNew = false
				continue
			case "{":
				p.advance()
				p.scanBalanced(parent, "}")
				if p.atPunct("}") {
					p.advance()
				}
				pendingNew = false
				continue
			case "[":
				p.advance()
				p.scanBalanced(parent, "]")
				if p.atPunct("]") {
					p.advance()
				}
				pendingNew = false
				continue
			case ")", "}", "]":
				// unbalanced closer; bail out to the caller
				return
			}
			p.advance()
			continue
		}
		if t.kind == tokIdent {
			if t.text == "new" {
				p.advance()
				pendingNew = true
				continue
			}
			if !callHeadBlacklist[t.text] || t.text == "this" {
				p.scanCallChain(parent, pendingNew)
				pendingNew = false
				continue
			}
		}
		p.advance()
		pendingNew = false
	}
}

// scanCallChain reads an identifier or property-access chain at the cursor.
// When the chain is followed by "(" it becomes a CallExpression (or a
// NewExpression when preceded by "new") with the chain, paren tokens and
// any nested calls as children; otherwise the chain tokens are consumed
// without producing nodes.
func (p *parser) scanCallChain(parent *Node, isNew bool) {
	var chain []token
	chain = append(chain, p.advance())
	for {
		if p.atPunct("?") && p.peek().kind == tokPunct && p.peek().text == "." {
			p.advance()
			continue
		}
		if p.atPunct(".") && p.peek().kind == tokIdent {
			p.advance()
			chain = append(chain, p.advance())
			continue
		}
		break
	}

	if !p.atPunct("(") {
		return
	}

	kind := KindCallExpression
	if isNew {
		kind = KindNewExpression
	}
	node := parent.newChild(kind, chain[0].start, chain[0].end)

	if len(chain) == 1 {
		node.newChild(identKind(chain[0]), chain[0].start, chain[0].end)
	} else {
		pae := node.newChild(KindPropertyAccess, chain[0].start, chain[len(chain)-1].end)
		for _, c := range chain {
			pae.newChild(identKind(c), c.start, c.end)
		}
	}

	open := p.advance()
	node.newChild(KindOpenParenToken, open.start, open.end)
	p.scanBalanced(node, ")")
	if p.atPunct(")") {
		cl := p.advance()
		node.newChild(KindCloseParenToken, cl.start, cl.end)
		node.End = cl.end
	} else {
		node.End = p.cur().start
	}
}

func identKind(t token) string {
	if t.text == "this" {
		return KindThisKeyword
	}
	return KindIdentifier
}

func attachModifiers(node *Node, mods []token) {
	for _, m := range mods {
		if k, ok := modifierKinds[m.text]; ok {
			node.newChild(k, m.start, m.end)
		}
	}
}
