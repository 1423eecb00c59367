// ABOUTME: The CSFLE and Queryable Encryption SA enablement deck, expressed as an ordered slide table.
// ABOUTME: Enablement appends every entry through the assembler so each slide runs its layout template.
package script

import (
	"fmt"

	"github.com/2389-research/deckforge/assembler"
	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/layout"
)

const (
	// DeckTitle is recorded in the document properties and used for the deck identifier.
	DeckTitle = "MongoDB CSFLE & Queryable Encryption"

	// DeckAuthor is recorded in the document properties.
	DeckAuthor = "MongoDB Solutions Architecture"

	// OutputName is the artifact name written when no path is given.
	OutputName = "MongoDB_CSFLE_QE_SA_Enablement.pptx"
)

// Entry is one slide of a script: the template kind and its content struct.
type Entry struct {
	Kind    deck.Kind
	Content any
}

// Enablement appends the enablement deck to a in display order.
func Enablement(a *assembler.Assembler) error {
	return Run(a, Slides())
}

// Run appends entries to a in order and stops at the first failure.
func Run(a *assembler.Assembler, entries []Entry) error {
	for i, e := range entries {
		if _, err := a.Append(e.Kind, e.Content); err != nil {
			return fmt.Errorf("script entry %d (%s): %w", i+1, e.Kind, err)
		}
	}
	return nil
}

func title(c layout.TitleContent) Entry { return Entry{Kind: deck.KindTitle, Content: c} }

func content(c layout.ContentContent) Entry { return Entry{Kind: deck.KindContent, Content: c} }

func twoColumn(c layout.TwoColumnContent) Entry {
	return Entry{Kind: deck.KindTwoColumn, Content: c}
}

func code(c layout.CodeContent) Entry { return Entry{Kind: deck.KindCode, Content: c} }

// Slides returns a fresh copy of the enablement deck entries.
func Slides() []Entry {
	return []Entry{
		title(layout.TitleContent{
			Title:    DeckTitle,
			Subtitle: "SA Technical Enablement Deep-Dive",
			Footer:   "45-minute presentation + 3 hands-on labs",
		}),

		content(layout.ContentContent{
			Title: "Today's Journey",
			Bullets: []string{
				`0-5 min: The "Why" & Compliance Hook`,
				"5-15 min: Cryptographic Fundamentals & Internals",
				"15-25 min: GDPR & Multi-Cloud Patterns",
				"25-35 min: CSFLE vs QE Architecture Differences",
				`35-45 min: Competitive "Kill" Tracks`,
			},
			Notes: `This is a technical deep-dive for senior SAs. By the end:
- You'll explain HOW QE works under the hood
- Design multi-cloud security architectures
- Handle GDPR/HIPAA compliance questions with confidence
- Differentiate from Oracle TDE and Cosmos DB`,
		}),

		content(layout.ContentContent{
			Title: "The Cost of Getting It Wrong",
			Bullets: []string{
				"€4.4B+ in GDPR fines to date",
				"Average HIPAA penalty: $1.3M",
				`GDPR Art. 32: "Encryption of personal data"`,
				"HIPAA: ePHI must be encrypted at rest AND in transit",
				"PCI-DSS: Encrypt cardholder data, manage crypto keys",
				"100% of major regulations now require encryption",
			},
			Notes: `GDPR Article 32 specifically calls out encryption.
Article 17 - the "Right to be Forgotten" - requires you to delete all user data.
CSFLE enables "crypto-shredding" to address this.
HIPAA requires encryption of electronic Protected Health Information (ePHI).
PCI-DSS is interesting because you need to encrypt cardholder data BUT also need to search it.`,
		}),

		content(layout.ContentContent{
			Title: "Where CSFLE & QE Shine",
			Bullets: []string{
				"Healthcare: Patient records (ePHI), Insurance IDs, Prescriptions → HIPAA",
				"Financial Services: Account numbers, SSN/Tax IDs, Transaction amounts → PCI-DSS, SOX",
				"Gaming & Social: Payment details, Chat logs (minors), Location → COPPA, GDPR",
				"Government: Classified data, PII, Biometrics → FedRAMP, ITAR",
			},
			Notes: `Pattern: Selective encryption of sensitive fields while maintaining application functionality.
Healthcare: Encrypt patient_name, SSN, diagnosis codes - leave timestamps queryable.
Financial: QE enables range queries on encrypted transaction amounts for fraud detection.`,
		}),

		twoColumn(layout.TwoColumnContent{
			Title:       "Two Solutions, Different Trade-offs",
			LeftHeading: "CSFLE (MongoDB 4.2+)",
			Left: []string{
				"Deterministic OR Random encryption",
				"Equality queries on deterministic fields",
				"Mature, battle-tested",
				"Lower overhead",
				"Can share DEK across multiple fields",
			},
			RightHeading: "Queryable Encryption (7.0+)",
			Right: []string{
				"Always random encryption",
				"Equality AND Range queries",
				"Latest innovation",
				"2-3x storage overhead",
				"Requires separate DEK per field",
			},
			Notes: `CRITICAL: QE requires a SEPARATE DEK for EACH encrypted field due to metadata binding.
In CSFLE, you might use one DEK for all sensitive fields.
In QE, each field needs its own DEK because of how the metadata collections work.`,
		}),

		content(layout.ContentContent{
			Title: "The Envelope Encryption Model",
			Bullets: []string{
				"CMK (Customer Master Key) → Lives in KMS, NEVER leaves",
				"DEK (Data Encryption Key) → Stored encrypted in Key Vault",
				"Data → Encrypted with DEK, stored as BSON Subtype 6",
				"Flow: Client → KMS (decrypt DEK) → Use DEK → Encrypt data",
				"CMK rotation only requires re-encrypting DEKs, not data",
			},
			Notes: `Three layers of protection:
1. CMK in KMS (AWS, Azure, GCP, KMIP) - your master key
2. DEKs in Key Vault collection - encrypted by CMK
3. Data as BSON Subtype 6 in your documents

Why envelope encryption?
- CMK rotation is cheap (only re-encrypt DEKs)
- CMK never touches your infrastructure
- Defense in depth`,
		}),

		content(layout.ContentContent{
			Title: "How QE Enables Range Queries on Ciphertext",
			Bullets: []string{
				"Encrypted Multi-Maps (EMMs) enable server-side computation",
				"Client generates encrypted tokens at insert time",
				"Tokens encode order relationships mathematically",
				"Server can test $gt, $lt, $eq without seeing plaintext",
				"Private Querying: Query patterns redacted from logs",
			},
			Notes: `This is the deep technical content that sets you apart.

Conceptually:
1. Client generates special "range tokens" at encryption time
2. These tokens encode order relationships mathematically
3. Server can test token relationships without knowing values
4. Result: Server finds "salary > 50000" without ever seeing the values

Private Querying is a bonus - a DBA can't even tell WHICH field you're querying.`,
		}),

		content(layout.ContentContent{
			Title: "QE Internal Collections",
			Bullets: []string{
				".esc (Encrypted State Collection / System Catalog):",
				"  - Named: enxcol_.<collection>.esc",
				"  - Stores metadata about encrypted fields",
				"  - Maps each field to its DEK",
				".ecoc (Encrypted Compaction Collection / Context Cache):",
				"  - Named: enxcol_.<collection>.ecoc",
				"  - Stores query tokens generated during inserts",
				"  - Grows with each insert - needs periodic compaction",
			},
			Notes: `Why this matters for customers:
1. Storage planning - these collections add overhead
2. Operational procedures - compaction should be scheduled monthly
3. Backup considerations - these collections must be backed up too

In Lab 2, you'll explore these collections in Compass.`,
		}),

		content(layout.ContentContent{
			Title: "Quick Challenge: Storage Overhead",
			Bullets: []string{
				"Question: What's the storage overhead for a Range-indexed encrypted field?",
				"",
				"A) 1.2x",
				"B) 1.5x",
				"C) 2-3x",
				"D) 5x+",
				"",
				"Answer: C) 2-3x for Range-indexed fields",
			},
			Notes: `Why 2-3x?
- Each value generates multiple tokens for range capability
- Tokens stored in .esc and .ecoc collections
- More granular ranges = more tokens

Factors affecting overhead:
- Number of encrypted fields
- Range index sparsity setting (min/max)
- Cardinality of values
- Query precision requirements`,
		}),

		content(layout.ContentContent{
			Title: "The Key Protection Stack",
			Bullets: []string{
				"KMS Provider (AWS/Azure/GCP/KMIP)",
				"    ↓ protects",
				"CMK (Customer Master Key)",
				"    ↓ encrypts",
				"DEK(s) (Data Encryption Keys)",
				"    ↓ encrypts",
				"Field Data (BSON Subtype 6)",
			},
			Notes: `Benefits of this architecture:
- CMK rotation is cheap (only re-encrypt DEKs, not all data)
- Separation of concerns (KMS team manages CMK, app team uses DEKs)
- Audit trail at every layer
- Cloud-agnostic (can switch KMS providers)

Key rotation workflow using rewrapManyDataKey():
1. Create new CMK in KMS
2. Call rewrapManyDataKey() to re-encrypt all DEKs
3. Retire old CMK - no data re-encryption needed!`,
		}),

		content(layout.ContentContent{
			Title: "GDPR Article 17: Crypto-Shredding",
			Bullets: []string{
				"The Problem: User requests deletion, but data is in backups, logs, everywhere",
				"The Solution: One DEK Per User pattern",
				"",
				"1. User signs up → Generate unique DEK for them",
				"2. All their sensitive data encrypted with THEIR DEK",
				"3. User requests erasure → Delete their DEK from Key Vault",
				"4. Result: All their data becomes cryptographically indecipherable",
				"   (Including backups - backups have encrypted data)",
			},
			Notes: `This is Lab 3 - implementing this pattern hands-on.

Limitation to discuss: Cross-user queries become complex.
If you need to query across users (analytics), you may need a separate aggregation approach.

This satisfies GDPR Art. 17 completely - the data is mathematically unrecoverable.`,
		}),

		twoColumn(layout.TwoColumnContent{
			Title:       "Managing CMKs Across Providers",
			LeftHeading: "BYOK (Bring Your Own Key)",
			Left: []string{
				"Customer owns and manages CMK",
				"Import existing keys to cloud KMS",
				"Full control over key lifecycle",
				"Required for some regulations",
			},
			RightHeading: "Managed Identity",
			Right: []string{
				"Cloud provider generates CMK",
				"Automatic rotation available",
				"Simpler operational model",
				"Sufficient for most use cases",
			},
			Notes: `Provider options:
- AWS KMS: Most common, IAM-based auth
- Azure Key Vault: Managed Identity is excellent
- GCP Cloud KMS: Service account auth
- KMIP: For on-prem HSMs (Thales, Gemalto)

Architecture tip: You can use DIFFERENT KMS providers for different DEKs.
- Production data with AWS KMS
- DR data with Azure Key Vault
- Provides true multi-cloud resilience`,
		}),

		twoColumn(layout.TwoColumnContent{
			Title:       "Choose Your Integration Path",
			LeftHeading: "Automatic Encryption",
			Left: []string{
				"Define encryptedFields on collection",
				"Driver intercepts all operations",
				"App code doesn't change",
				"Best for new applications",
				"Uses schemaMap or encryptedFields",
			},
			RightHeading: "Explicit Encryption",
			Right: []string{
				"Call encrypt/decrypt methods directly",
				"Full control over when/what",
				"Can encrypt conditionally",
				"Best for retrofitting legacy apps",
				"Uses clientEncryption.encrypt()",
			},
			Notes: `In practice, many customers use both:
- Automatic for the main path
- Explicit for edge cases or conditional encryption

Both use the same underlying crypto - it's about developer experience.`,
		}),

		code(layout.CodeContent{
			Title: "QE Configuration: encryptedFields",
			Code: `// Modern QE Configuration (MongoDB 7.0+)
const encryptedFields = {
  fields: [
    {
      path: "ssn",
      bsonType: "string",
      queries: { queryType: "equality" }
    },
    {
      path: "salary",
      bsonType: "int",
      queries: {
        queryType: "range",
        min: 0,
        max: 1000000,
        sparsity: 2,       // Higher = fewer tokens
        contention: 4      // Balances throughput vs security
      }
    }
  ]
};

await db.createCollection("employees", { encryptedFields });`,
			Notes: `Key parameters for Range queries:
- min/max: Bounds for token generation (required for Range)
- sparsity: Higher values = fewer tokens, lower precision
- contention: 0-16, balances write throughput vs frequency analysis protection

Important: Each field gets its own DEK automatically.`,
		}),

		content(layout.ContentContent{
			Title: "Query Operator Support Matrix",
			Bullets: []string{
				"✅ $eq - All modes",
				"✅ $ne - All modes",
				"✅ $gt, $gte, $lt, $lte - QE Range only",
				"✅ $in - All modes",
				"❌ $regex - Not supported",
				"❌ $text search - Not supported",
				"❌ Sorting - Would leak order information",
				"❌ $group/$sum - Aggregations not supported",
			},
			Notes: `What you CANNOT do on encrypted fields:
- Text search ($text, $regex)
- Sorting (would leak order information)
- Aggregations ($group, $sum, $avg)

Schema design implication:
- Keep sortable/aggregatable fields unencrypted
- Or aggregate on the client side after decryption
- Consider separate analytics store for reporting`,
		}),

		twoColumn(layout.TwoColumnContent{
			Title:       "What You Can't Do (Be Honest)",
			LeftHeading: "❌ Not Supported",
			Left: []string{
				"Sorting on encrypted fields",
				"Full-text search ($text)",
				"Regex matching ($regex)",
				"Aggregation operators",
				"Array operations on encrypted arrays",
				"Computed fields using encrypted values",
			},
			RightHeading: "✅ Workarounds",
			Right: []string{
				"Client-side sorting after decryption",
				"Tokenized search on separate field",
				"Pre-computed aggregates (anonymized)",
				"Separate analytics collection",
				"Encrypt array as whole document",
			},
			Notes: `Be honest with customers about limitations.
Better they hear it from you than discover it in production.

Best Practice: Design schema so sorting, searching, and aggregation
target non-sensitive fields. Encrypt only what needs protection.`,
		}),

		content(layout.ContentContent{
			Title: "Performance & Operational Impact",
			Bullets: []string{
				"Storage: 2-3x overhead for Range fields, ~1.5x for Equality",
				"Write Latency: ~10% increase for encrypted inserts",
				"Each insert = writes to main doc + .esc + .ecoc + range tokens",
				"Compaction: .ecoc grows with inserts, compact monthly",
				"Compaction is online - no downtime required",
			},
			Notes: `Performance facts:
- Storage: Plan for 2.5x factor for Range fields
- Writes: The overhead is from multiple internal writes (atomic)
- Compaction: Schedule monthly for active collections

Sizing guidance:
- Start with 2.5x storage factor for Range fields
- Monitor and adjust based on actual usage
- Consider separate storage tier for encrypted collections`,
		}),

		content(layout.ContentContent{
			Title: "Key Rotation with rewrapManyDataKey",
			Bullets: []string{
				"Supported KMS Providers:",
				"  - AWS KMS (most common)",
				"  - Azure Key Vault",
				"  - GCP Cloud KMS",
				"  - KMIP (Thales, etc.)",
				"  - Local Key (DEV ONLY)",
				"",
				"Key Rotation is FAST:",
				"  - Only re-encrypts DEKs (small documents)",
				"  - Actual data remains unchanged",
				"  - 1M documents? Still just re-encrypting a few DEKs",
			},
			Notes: `Key rotation with rewrapManyDataKey():
1. Create new CMK in your KMS
2. Call rewrapManyDataKey() - re-encrypts all DEKs
3. Retire old CMK after verification

Best practices:
- Rotate CMK annually (or per compliance requirements)
- Test rotation in staging first
- Keep old CMK around briefly for rollback
- Automate rotation in CI/CD pipeline`,
		}),

		content(layout.ContentContent{
			Title: "Compliance Coverage Matrix",
			Bullets: []string{
				"GDPR Art. 32 → CSFLE/QE field-level encryption",
				"GDPR Art. 17 → 1 DEK per user = crypto-shredding",
				"HIPAA → CSFLE on PHI fields (BSON Subtype 6)",
				"PCI-DSS Req 3 → QE for searchable encrypted PAN",
				"SOX → KMS audit logs (CloudTrail, Azure Monitor)",
				"All → RBAC + encryption = defense in depth",
			},
			Notes: `Auditor conversations:
- "Show me the encryption" → BSON Subtype 6 in documents
- "Show me key management" → KMS audit logs
- "Show me access controls" → RBAC + field-level separation

Key message: Encryption is one layer of defense.
Customers still need network security, access controls, monitoring.`,
		}),

		content(layout.ContentContent{
			Title: "How We Differentiate",
			Bullets: []string{
				"vs Oracle TDE:",
				"  - TDE decrypts in memory - DBAs see plaintext",
				"  - MongoDB: Server NEVER sees plaintext",
				"vs Cosmos DB:",
				"  - Cosmos is deterministic-only (pattern leakage)",
				"  - No range queries on encrypted data",
				"  - MongoDB QE: Random encryption + range queries",
				"vs PostgreSQL:",
				"  - Server-side encryption - decrypts for processing",
				"  - No built-in KMS integration",
			},
			Notes: `Key message: MongoDB is the only document database with client-side
searchable encryption that supports range queries while maintaining
true zero-trust (server never sees plaintext).`,
		}),

		twoColumn(layout.TwoColumnContent{
			Title:       "Customer Discovery Questions",
			LeftHeading: "Security Questions",
			Left: []string{
				"What data classifications do you have?",
				"Who should NOT see sensitive data?",
				"Do you have insider threat concerns?",
				"What's your key management strategy?",
			},
			RightHeading: "Compliance Questions",
			Right: []string{
				"Which regulations apply?",
				"Have you had any audit findings?",
				"Do you need Right to be Forgotten?",
				"What are your data residency requirements?",
			},
			Notes: `The killer question:
"Should your database administrators be able to see customer SSNs?"

The answer is almost always "No" - and that's where client-side
encryption becomes essential. TDE doesn't help because DBAs can
still see decrypted data.`,
		}),

		content(layout.ContentContent{
			Title: "Common Objections & Responses",
			Bullets: []string{
				`"We already have TDE" → TDE decrypts in memory. DBAs see plaintext.`,
				`"This will slow down queries" → ~10% overhead. Security vs speed trade-off.`,
				`"We can't search encrypted data" → QE enables equality AND range queries.`,
				`"Too complex to implement" → Automatic encryption uses schema definition.`,
				`"Compliance is OK with TDE" → Ask about insider threats. GDPR covers internal access.`,
			},
			Notes: `The key: Don't argue features.
Understand their specific concerns and address those.

Frame it as: "What's the cost of a data breach vs. 10% latency?"`,
		}),

		twoColumn(layout.TwoColumnContent{
			Title:       "Anti-Patterns & Bad Fits",
			LeftHeading: "Don't Use When...",
			Left: []string{
				"Heavy aggregations on encrypted fields",
				"Full-text search on sensitive data",
				"Sorting is critical on encrypted fields",
				"Sub-millisecond latency requirements",
				"Legacy apps that can't be modified",
			},
			RightHeading: "Consider Instead...",
			Right: []string{
				"Client-side aggregation for analytics",
				"Tokenized search with separate index",
				"Application-layer sorting after decrypt",
				"Accept latency for security trade-off",
				"Incremental migration path",
			},
			Notes: `Be honest about when NOT to use CSFLE/QE. This builds trust.

The key: Qualify early. A failed POC is worse than a declined engagement.`,
		}),

		content(layout.ContentContent{
			Title: "Three 34-Minute Labs",
			Bullets: []string{
				"Lab 1: CSFLE & Troubleshooting (34 min)",
				"  - AWS KMS setup, Automatic encryption",
				"  - crypt_shared debugging, BSON Subtype 6 verification",
				"",
				"Lab 2: QE Range Queries (34 min)",
				"  - Range query on salary field",
				"  - Inspect .esc/.ecoc, DEK per field verification",
				"",
				"Lab 3: Right to Erasure (34 min)",
				"  - 1 DEK per user pattern",
				"  - Crypto-shredding demo, selective erasure verification",
			},
			Notes: `Each lab has step-by-step instructions and checkpoints.
Labs use AWS KMS for realistic enterprise scenarios.`,
		}),

		content(layout.ContentContent{
			Title: "Key Takeaways",
			Bullets: []string{
				"CSFLE = deterministic + equality queries (MongoDB 4.2+)",
				"QE = randomized + range queries (MongoDB 7.0+)",
				"QE requires separate DEK per field (critical difference)",
				"2-3x storage for Range indexes - plan capacity accordingly",
				".esc and .ecoc need periodic compaction (monthly)",
				"1 DEK per user = crypto-shredding for GDPR compliance",
				"",
				"Resources: docs.mongodb.com/csfle, docs.mongodb.com/qe",
			},
			Notes: `Final reminders:
1. CSFLE vs QE choice depends on query requirements
2. QE is more secure (randomized) but has overhead
3. The DEK-per-field requirement for QE is critical
4. Storage planning must account for 2-3x overhead
5. Compaction is an operational requirement
6. Crypto-shredding enables GDPR compliance`,
		}),
	}
}
